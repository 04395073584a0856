package core

import "testing"

func TestExtractAmount(t *testing.T) {
	cases := []struct {
		in       string
		amount   Money
		residual string
		found    bool
	}{
		{"beli beras 50rb", 50000, "beli beras", true},
		{"50 rb", 50000, "", true},
		{"makan di warteg 12ribu", 12000, "makan di warteg", true},
		{"bensin motor 30k", 30000, "bensin motor", true},
		{"gaji bulanan 1.5juta", 1500000, "gaji bulanan", true},
		{"2jt buat kontrakan", 2000000, "buat kontrakan", true},
		{"bayar listrik 200.000", 200000, "bayar listrik", true},
		{"15.000.000", 15000000, "", true},
		{"transfer 25,000 ke adik", 25000, "transfer ke adik", true},
		{"200000", 200000, "", true},
		{"makan siang 25000", 25000, "makan siang", true},
		{"15.000rb", 15000000, "", true}, // separator inside a suffix numeral
		{"123", 0, "123", false},         // 3 bare digits are not money
		{"tanggal 7/12 rapat", 0, "tanggal 7/12 rapat", false},
		{"beli 2 kg beras", 0, "beli 2 kg beras", false},
		{"", 0, "", false},
		{"tidak ada angka", 0, "tidak ada angka", false},
	}
	for _, tc := range cases {
		amount, residual, found := ExtractAmount(tc.in)
		if found != tc.found {
			t.Fatalf("%q: found = %v, want %v", tc.in, found, tc.found)
		}
		if amount != tc.amount {
			t.Fatalf("%q: amount = %d, want %d", tc.in, amount, tc.amount)
		}
		if residual != tc.residual {
			t.Fatalf("%q: residual = %q, want %q", tc.in, residual, tc.residual)
		}
	}
}

func TestExtractAmountPrefersSuffixOverEarlierPlainNumber(t *testing.T) {
	// The suffix form is the most specific pattern and wins even when a
	// plain number appears earlier in the message.
	amount, residual, found := ExtractAmount("5000 perak dan 50rb kertas")
	if !found || amount != 50000 {
		t.Fatalf("amount = %d (found=%v), want 50000", amount, found)
	}
	if residual != "5000 perak dan kertas" {
		t.Fatalf("residual = %q", residual)
	}
}

func TestExtractAmountLeftmostWins(t *testing.T) {
	amount, residual, found := ExtractAmount("25.000 lalu 50.000")
	if !found || amount != 25000 {
		t.Fatalf("amount = %d (found=%v), want 25000", amount, found)
	}
	if residual != "lalu 50.000" {
		t.Fatalf("residual = %q", residual)
	}
}

func TestExtractAmountRoundsHalfUp(t *testing.T) {
	// 1.0005 juta = 1_000_500 exactly; 1.00005 juta rounds to 1_000_050.
	amount, _, found := ExtractAmount("1.00005juta")
	if !found || amount != 1000050 {
		t.Fatalf("amount = %d (found=%v), want 1000050", amount, found)
	}
}

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		in  Money
		out string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{50000, "Rp 50.000"},
		{1500000, "Rp 1.500.000"},
		{-75000, "Rp -75.000"},
	}
	for _, tc := range cases {
		if got := FormatRupiah(tc.in); got != tc.out {
			t.Fatalf("FormatRupiah(%d) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

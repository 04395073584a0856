package http

import (
	"fmt"
	"strings"

	"budgetin/internal/core"
	"budgetin/internal/services"
)

const welcomeText = `🤖 *Selamat datang di Bot Pencatat Pengeluaran!*

Cara menggunakan:
📝 Kirim pesan dengan format bebas, contoh:
• "beli beras 50rb"
• "makan siang 25000"
• "bensin motor 30k"

📊 Perintah lainnya:
• /saldo - Lihat atau atur saldo
• /isi - Top up saldo
• /ringkasan - Lihat ringkasan bulan ini
• /kategori - Lihat semua kategori
• /help - Bantuan lengkap

Bot akan otomatis mendeteksi jumlah uang dan mencatatnya! 💾`

const helpText = `📋 *Bantuan Bot Pencatat Pengeluaran*

*Cara mencatat pengeluaran:*
Kirim pesan dengan format bebas yang mengandung jumlah uang:

• "beli sayur 15rb"
• "isi bensin 50000"
• "bayar listrik 200.000"
• "makan di warteg 12ribu"

*Format jumlah yang didukung:*
• 50rb, 50 rb, 50ribu
• 50k, 50 k
• 1.5juta, 2juta
• 50000 (angka biasa)
• 50.000 (dengan titik)

*Perintah:*
• /saldo - Lihat saldo saat ini
• /saldo <jumlah> - Atur ulang saldo awal
• /isi <jumlah> - Top up saldo
• /ringkasan - Ringkasan bulan ini
• /budget - Atur budget per kategori
• /insights - Analisis pengeluaran bulanan
• /kategori - Lihat semua kategori

Saldo akan otomatis berkurang setiap pengeluaran! 📊`

const needBalanceText = `💰 Anda belum mengatur saldo.
Atur saldo awal dengan /saldo <jumlah>, contoh: /saldo 1000000`

const noAmountText = `❌ Tidak dapat mendeteksi jumlah uang.
Contoh: 'beli beras 50rb' atau 'makan siang 25000'`

const internalErrorText = `❌ Terjadi kesalahan. Silakan coba lagi.`

const budgetUsageText = `💰 *Pengaturan Budget*

• /budget - Lihat status budget bulan ini
• /budget <kategori> <jumlah> - Atur budget bulanan
• /budget hapus <kategori> - Hapus budget kategori
• /budget saran - Lihat saran budget bulanan

Contoh: /budget Daily Needs 2juta
Gunakan /kategori untuk daftar nama kategori.`

const unknownCategoryText = `❌ Kategori tidak dikenal. Gunakan /kategori untuk daftar kategori.`

var categoriesText = buildCategoriesText()

func buildCategoriesText() string {
	var b strings.Builder
	b.WriteString("📂 *Kategori Pengeluaran:*\n")
	for _, c := range core.Categories {
		b.WriteString(fmt.Sprintf("\n• %s", c))
	}
	b.WriteString("\n\nKategori akan dipilih otomatis berdasarkan kata kunci dalam keterangan Anda.")
	return b.String()
}

func formatBalance(balance core.Money) string {
	return fmt.Sprintf("💳 *Saldo Anda Saat Ini*\n\n💰 %s", core.FormatRupiah(balance))
}

func formatBalanceSet(balance core.Money) string {
	return fmt.Sprintf(`✅ *Saldo awal berhasil diset!*

💰 *Saldo Anda:* %s

📊 Saldo akan otomatis berkurang setiap pengeluaran.`, core.FormatRupiah(balance))
}

func formatTopup(amount, newBalance core.Money) string {
	return fmt.Sprintf(`✅ *Top up berhasil!*

➕ Jumlah: %s
💰 Saldo sekarang: %s`, core.FormatRupiah(amount), core.FormatRupiah(newBalance))
}

func formatRecordResult(res services.RecordResult) string {
	tx := res.Transaction
	var b strings.Builder
	fmt.Fprintf(&b, `✅ *Pengeluaran berhasil dicatat!*

💰 Jumlah: %s
📝 Keterangan: %s
📂 Kategori: %s
💳 Sisa saldo: %s`,
		core.FormatRupiah(tx.Amount),
		tx.Description,
		tx.Category,
		core.FormatRupiah(res.NewBalance))
	if res.LowBalance {
		b.WriteString("\n\n⚠️ *Saldo Anda menipis!* Pertimbangkan untuk top up dengan /isi.")
	}
	if res.Budget != nil {
		switch res.Budget.State {
		case core.BudgetExceeded:
			fmt.Fprintf(&b, "\n\n⚠️ *Budget %s terlampaui!* Terpakai %s dari %s.",
				res.Budget.Category, core.FormatRupiah(res.Budget.Spent), core.FormatRupiah(res.Budget.Limit))
		case core.BudgetWarning:
			fmt.Fprintf(&b, "\n\n🔸 *Budget %s hampir habis:* %s dari %s (%.0f%%).",
				res.Budget.Category, core.FormatRupiah(res.Budget.Spent), core.FormatRupiah(res.Budget.Limit), res.Budget.Percent)
		}
	}
	return b.String()
}

func budgetStateEmoji(state core.BudgetState) string {
	switch state {
	case core.BudgetExceeded:
		return "⚠️"
	case core.BudgetWarning:
		return "🔸"
	default:
		return "✅"
	}
}

func formatBudgetReport(statuses []core.BudgetStatus) string {
	if len(statuses) == 0 {
		return "📊 Belum ada budget yang diatur.\nAtur dengan /budget <kategori> <jumlah>, contoh: /budget Daily Needs 2juta"
	}
	var b strings.Builder
	b.WriteString("💰 *Status Budget Bulan Ini*\n")
	for _, st := range statuses {
		fmt.Fprintf(&b, "\n%s *%s*: %s / %s (%.0f%%)",
			budgetStateEmoji(st.State), st.Category,
			core.FormatRupiah(st.Spent), core.FormatRupiah(st.Limit), st.Percent)
		if st.State == core.BudgetExceeded {
			b.WriteString("\n   Budget terlampaui!")
		} else {
			fmt.Fprintf(&b, "\n   Sisa: %s", core.FormatRupiah(st.Remaining))
		}
	}
	return b.String()
}

func formatBudgetSet(category core.Category, limit core.Money) string {
	return fmt.Sprintf(`✅ *Budget berhasil diatur!*

📂 Kategori: %s
💰 Limit bulanan: %s

Bot akan memperingatkan saat pengeluaran mendekati limit.`, category, core.FormatRupiah(limit))
}

func formatBudgetSuggestions(budgets []core.Budget) string {
	var b strings.Builder
	b.WriteString("💡 *Saran Budget Bulanan*\n")
	for _, budget := range budgets {
		fmt.Fprintf(&b, "\n• %s: %s", budget.Category, core.FormatRupiah(budget.Limit))
	}
	b.WriteString("\n\nTerapkan dengan /budget <kategori> <jumlah>.")
	b.WriteString("\nTambahkan penghasilan untuk saran yang dipersonalisasi: /budget saran 10juta")
	return b.String()
}

func trendLine(in core.MonthInsights) string {
	switch in.Trend {
	case core.TrendUp:
		return fmt.Sprintf("📈 Naik %.1f%% dari bulan lalu", in.ChangePercent)
	case core.TrendDown:
		return fmt.Sprintf("📉 Turun %.1f%% dari bulan lalu", -in.ChangePercent)
	default:
		if in.PreviousTotal == 0 {
			return "➡️ Belum ada data bulan lalu untuk dibandingkan"
		}
		return "➡️ Stabil dibanding bulan lalu"
	}
}

func formatInsights(in core.MonthInsights) string {
	sum := in.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Analisis Pengeluaran %s*\n\n", core.WorksheetName(sum.Year, sum.Month))
	if sum.Count == 0 {
		b.WriteString("Belum ada pengeluaran tercatat bulan ini.")
		return b.String()
	}

	fmt.Fprintf(&b, "💰 Total: %s\n", core.FormatRupiah(sum.Total))
	fmt.Fprintf(&b, "🧾 Transaksi: %d\n", sum.Count)
	fmt.Fprintf(&b, "📅 Rata-rata per hari: %s\n\n", core.FormatRupiah(core.Money(sum.AveragePerDay)))

	b.WriteString("*🏆 Kategori Terbesar:*\n")
	medals := []string{"🥇", "🥈", "🥉"}
	for i, share := range sum.ByCategory {
		if i >= len(medals) {
			break
		}
		fmt.Fprintf(&b, "%s %s: %s (%.1f%%)\n", medals[i], share.Category, core.FormatRupiah(share.Total), share.Percent)
	}

	fmt.Fprintf(&b, "\n*📈 Tren:* %s\n", trendLine(in))
	fmt.Fprintf(&b, "🔮 Proyeksi akhir bulan: %s\n", core.FormatRupiah(in.Projected))
	if in.HasLargest {
		fmt.Fprintf(&b, "💎 Pengeluaran terbesar: %s (%s)\n", core.FormatRupiah(in.Largest.Amount), in.Largest.Description)
	}
	fmt.Fprintf(&b, "🗓️ Porsi akhir pekan: %.0f%%", in.WeekendPercent)
	return b.String()
}

func formatSummary(sum core.MonthlySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Ringkasan Pengeluaran %s*\n\n", core.WorksheetName(sum.Year, sum.Month))
	if sum.Count == 0 {
		b.WriteString("Belum ada pengeluaran tercatat bulan ini.")
		return b.String()
	}
	fmt.Fprintf(&b, "💰 Total: %s\n", core.FormatRupiah(sum.Total))
	fmt.Fprintf(&b, "🧾 Transaksi: %d\n", sum.Count)
	fmt.Fprintf(&b, "📅 Rata-rata per hari: %s\n", core.FormatRupiah(core.Money(sum.AveragePerDay)))
	b.WriteString("\n*Per Kategori:*\n")
	for _, share := range sum.ByCategory {
		fmt.Fprintf(&b, "• %s: %s (%.1f%%)\n", share.Category, core.FormatRupiah(share.Total), share.Percent)
	}
	return b.String()
}

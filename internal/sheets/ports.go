package sheets

import (
	"context"

	"budgetin/internal/core"
)

// Ports for outbound spreadsheet adapters.
type (
	// TransactionWriter appends a recorded transaction to the worksheet
	// of its calendar month, creating the worksheet when needed.
	TransactionWriter interface {
		AppendTransaction(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// MonthReader lists the rows of one month's worksheet.
	MonthReader interface {
		ListMonth(ctx context.Context, year, month int) ([]core.Transaction, error)
	}
)

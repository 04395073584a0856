package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"budgetin/internal/core"
	"budgetin/internal/telegram"
)

// handleWebhook processes one Telegram update. Telegram retries on
// non-2xx responses, so every handled update answers 200 even when the
// reply to the user is an error message.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if !s.rateLimiter.allow(clientIP(r)) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	update, err := telegram.ParseUpdate(r.Body)
	if err != nil {
		slog.WarnContext(r.Context(), "Malformed webhook payload", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if update.Message != nil && strings.TrimSpace(update.Message.Text) != "" {
		s.dispatch(r.Context(), update.Message)
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) dispatch(ctx context.Context, msg *telegram.Message) {
	text := strings.TrimSpace(msg.Text)
	chatID := msg.Chat.ID
	userID := userIDOf(msg)

	var reply string
	switch {
	case text == "/start":
		reply = welcomeText
	case text == "/help":
		reply = helpText
	case text == "/kategori":
		reply = categoriesText
	case text == "/saldo" || strings.HasPrefix(text, "/saldo "):
		reply = s.handleSaldo(ctx, userID, strings.TrimSpace(strings.TrimPrefix(text, "/saldo")))
	case text == "/isi" || strings.HasPrefix(text, "/isi "):
		reply = s.handleTopup(ctx, userID, strings.TrimSpace(strings.TrimPrefix(text, "/isi")))
	case text == "/ringkasan":
		reply = s.handleSummary(ctx, userID)
	case text == "/budget" || strings.HasPrefix(text, "/budget "):
		reply = s.handleBudget(ctx, userID, strings.TrimSpace(strings.TrimPrefix(text, "/budget")))
	case text == "/insights":
		reply = s.handleInsights(ctx, userID)
	case strings.HasPrefix(text, "/"):
		reply = "❓ Perintah tidak dikenal. Gunakan /help untuk daftar perintah."
	default:
		reply = s.handleExpense(ctx, userID, text)
	}

	if err := s.replier.SendMessage(ctx, chatID, reply); err != nil {
		slog.ErrorContext(ctx, "Failed to send reply",
			"chat_id", chatID, "error", err)
	}
}

// handleSaldo shows the balance, or sets the initial balance when an
// amount follows the command.
func (s *Server) handleSaldo(ctx context.Context, userID, arg string) string {
	if arg == "" {
		state, err := s.tracker.Balance(ctx, userID)
		if err != nil {
			if errors.Is(err, core.ErrLedgerNotInitialized) {
				return needBalanceText
			}
			slog.ErrorContext(ctx, "Failed to read balance", "user_id", userID, "error", err)
			return internalErrorText
		}
		return formatBalance(state.Balance)
	}

	amount, ok := parseAmountArg(arg)
	if !ok {
		return "❌ Format saldo tidak valid.\nContoh: /saldo 1000000 atau /saldo 1juta"
	}
	state, err := s.tracker.SetBalance(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			return "❌ Saldo tidak boleh negatif. Silakan masukkan angka yang benar."
		}
		slog.ErrorContext(ctx, "Failed to set balance", "user_id", userID, "error", err)
		return internalErrorText
	}
	return formatBalanceSet(state.Balance)
}

func (s *Server) handleTopup(ctx context.Context, userID, arg string) string {
	amount, ok := parseAmountArg(arg)
	if !ok {
		return "❌ Format jumlah tidak valid.\nContoh: /isi 500rb atau /isi 500000"
	}
	adv, err := s.tracker.Topup(ctx, userID, amount)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrLedgerNotInitialized):
			return needBalanceText
		case errors.Is(err, core.ErrInvalidAmount):
			return "❌ Jumlah top up harus lebih dari nol."
		default:
			slog.ErrorContext(ctx, "Failed to top up", "user_id", userID, "error", err)
			return internalErrorText
		}
	}
	return formatTopup(amount, adv.NewBalance)
}

func (s *Server) handleSummary(ctx context.Context, userID string) string {
	now := core.JakartaNow()
	sum, err := s.tracker.MonthlySummary(ctx, userID, now.Year(), int(now.Month()))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build summary", "user_id", userID, "error", err)
		return internalErrorText
	}
	return formatSummary(sum)
}

// handleBudget shows the budget report, sets a category limit, clears
// one, or suggests limits. Category names may contain spaces, so the
// amount is always the last token.
func (s *Server) handleBudget(ctx context.Context, userID, arg string) string {
	if arg == "" {
		statuses, err := s.tracker.BudgetReport(ctx, userID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to build budget report", "user_id", userID, "error", err)
			return internalErrorText
		}
		return formatBudgetReport(statuses)
	}

	fields := strings.Fields(arg)
	switch strings.ToLower(fields[0]) {
	case "saran":
		var income core.Money
		if len(fields) > 1 {
			if v, ok := parseAmountArg(fields[1]); ok {
				income = v
			}
		}
		return formatBudgetSuggestions(core.SuggestBudgets(income))
	case "hapus":
		if len(fields) < 2 {
			return budgetUsageText
		}
		category, ok := core.ValidCategory(strings.Join(fields[1:], " "))
		if !ok {
			return unknownCategoryText
		}
		removed, err := s.tracker.RemoveBudget(ctx, userID, category)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to remove budget", "user_id", userID, "error", err)
			return internalErrorText
		}
		if !removed {
			return fmt.Sprintf("ℹ️ Tidak ada budget untuk kategori %s.", category)
		}
		return fmt.Sprintf("🗑️ Budget kategori %s dihapus.", category)
	}

	if len(fields) < 2 {
		return budgetUsageText
	}
	amount, ok := parseAmountArg(fields[len(fields)-1])
	if !ok {
		return budgetUsageText
	}
	category, ok := core.ValidCategory(strings.Join(fields[:len(fields)-1], " "))
	if !ok {
		return unknownCategoryText
	}
	if err := s.tracker.SetBudget(ctx, userID, category, amount); err != nil {
		slog.ErrorContext(ctx, "Failed to set budget", "user_id", userID, "error", err)
		return internalErrorText
	}
	return formatBudgetSet(category, amount)
}

func (s *Server) handleInsights(ctx context.Context, userID string) string {
	in, err := s.tracker.Insights(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build insights", "user_id", userID, "error", err)
		return internalErrorText
	}
	return formatInsights(in)
}

func (s *Server) handleExpense(ctx context.Context, userID, text string) string {
	res, err := s.tracker.RecordExpense(ctx, userID, text)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrAmountNotFound):
			return noAmountText
		case errors.Is(err, core.ErrLedgerNotInitialized):
			return needBalanceText
		default:
			slog.ErrorContext(ctx, "Failed to record expense", "user_id", userID, "error", err)
			return internalErrorText
		}
	}
	return formatRecordResult(res)
}

func userIDOf(msg *telegram.Message) string {
	if msg.From != nil {
		return strconv.FormatInt(msg.From.ID, 10)
	}
	return strconv.FormatInt(msg.Chat.ID, 10)
}

// parseAmountArg reads a command argument like "500rb", "1juta", or a
// plain number. Plain digits are taken as-is, without the 4-digit
// minimum used for free text.
func parseAmountArg(arg string) (core.Money, bool) {
	arg = strings.TrimSpace(arg)
	if arg == "" || strings.HasPrefix(arg, "-") {
		return 0, false
	}
	if amount, _, found := core.ExtractAmount(arg); found {
		return amount, true
	}
	cleaned := strings.NewReplacer(".", "", ",", "", " ", "").Replace(arg)
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return core.Money(n), true
}

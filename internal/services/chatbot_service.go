package services

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "goalstash/internal/errors"
	"goalstash/internal/models"
)

var hundred = decimal.NewFromInt(100)

var savingsTips = []string{
	"Set up automatic transfers to your savings goals to build the habit.",
	"Start small - even saving a few pounds regularly can make a big difference over time.",
	"Track your progress regularly to stay motivated.",
	"Consider the 50/30/20 rule: 50% needs, 30% wants, 20% savings.",
	"Review and adjust your goals as your financial situation changes.",
}

// chatbotService answers questions using only the user's own stored
// data. It has read-only access and no invariant obligations.
type chatbotService struct {
	db     *gorm.DB
	ledger LedgerServicer
}

// NewChatbotService creates a new ChatbotServicer.
func NewChatbotService(db *gorm.DB, ledger LedgerServicer) ChatbotServicer {
	return &chatbotService{db: db, ledger: ledger}
}

// Reply generates a response to the user's message based on simple
// keyword matching over their goals and recent transactions.
func (s *chatbotService) Reply(userID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "message is required")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&goals).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Only transactions whose goal still exists feed the reply.
	transactions, err := s.ledger.GetRecentTransactions(userID, 10)
	if err != nil {
		return "", err
	}

	query := strings.ToLower(message)

	switch {
	case strings.Contains(query, "goal") || strings.Contains(query, "target"):
		return goalsReply(&user, goals), nil
	case strings.Contains(query, "progress") || strings.Contains(query, "how am i doing"):
		return progressReply(&user, goals), nil
	case strings.Contains(query, "transaction") || strings.Contains(query, "recent") || strings.Contains(query, "history"):
		return historyReply(&user, transactions), nil
	case strings.Contains(query, "save") || strings.Contains(query, "saving"):
		return tipReply(&user), nil
	case strings.Contains(query, "help") || strings.Contains(query, "what can you do"):
		return helpReply(&user), nil
	default:
		return overviewReply(&user, goals), nil
	}
}

func goalsReply(user *models.User, goals []models.Goal) string {
	if len(goals) == 0 {
		return "I see you don't have any active savings goals yet! Creating your first savings goal is a great way to start building your financial future. You can add a new goal from your dashboard."
	}

	plural := ""
	if len(goals) > 1 {
		plural = "s"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d active saving goal%s:\n\n", len(goals), plural)
	for _, goal := range goals {
		progress := goal.CurrentTotal.Mul(hundred).Div(goal.EndTotal).StringFixed(1)
		fmt.Fprintf(&b, "- %s: %s%s saved (%s%% of %s%s target). %s.\n",
			goal.Name,
			user.Currency, goal.CurrentTotal.StringFixed(2),
			progress,
			user.Currency, goal.EndTotal.StringFixed(2),
			deadlinePhrase(goal.EndDate),
		)
	}
	return b.String()
}

func progressReply(user *models.User, goals []models.Goal) string {
	totalTargets := decimal.Zero
	for _, goal := range goals {
		totalTargets = totalTargets.Add(goal.EndTotal)
	}

	overall := "0"
	if totalTargets.IsPositive() {
		overall = user.TotalCurrentlySaved.Mul(hundred).Div(totalTargets).StringFixed(1)
	}

	closing := "Consider setting your first savings goal to start tracking your progress!"
	if len(goals) > 0 {
		closing = "Keep up the great work! Every small contribution gets you closer to your goals."
	}

	return fmt.Sprintf(
		"Great question! Here's your savings overview:\n\nTotal saved: %s%s\nOverall progress: %s%% towards your combined goals\nActive goals: %d\n\n%s",
		user.Currency, user.TotalCurrentlySaved.StringFixed(2), overall, len(goals), closing,
	)
}

func historyReply(user *models.User, transactions []models.Transaction) string {
	if len(transactions) == 0 {
		return "You haven't made any transactions yet. Once you start saving towards your goals, your transaction history will appear here!"
	}

	var b strings.Builder
	b.WriteString("Here are your recent transactions:\n\n")
	for i, t := range transactions {
		if i >= 5 {
			break
		}
		label := "Deposit"
		if t.Type == models.TransactionTypeWithdrawal {
			label = "Withdrawal"
		}
		fmt.Fprintf(&b, "%s: %s%s for \"%s\" on %s\n",
			label, user.Currency, t.Amount.StringFixed(2), t.Goal.Name, t.Date.Format("02 Jan 2006"))
	}
	return b.String()
}

func tipReply(user *models.User) string {
	tip := savingsTips[rand.Intn(len(savingsTips))]
	return fmt.Sprintf(
		"Here's a helpful savings tip: %s\n\nBased on your current progress, you're doing well with %s%s saved across your goals!",
		tip, user.Currency, user.TotalCurrentlySaved.StringFixed(2),
	)
}

func helpReply(user *models.User) string {
	return fmt.Sprintf(
		"Hi %s! I'm Savvy, your savings assistant. I can help you with:\n\n- Checking your savings progress\n- Information about your goals\n- Reviewing your transaction history\n- Providing savings tips and motivation\n\nJust ask me questions like:\n- \"How are my goals doing?\"\n- \"Show me my recent transactions\"\n- \"Give me a savings tip\"\n- \"What's my progress?\"",
		user.FirstName,
	)
}

func overviewReply(user *models.User, goals []models.Goal) string {
	return fmt.Sprintf(
		"Hi %s! I'm here to help with your savings journey.\n\nQuick overview:\nTotal saved: %s%s\nActive goals: %d\n\nYou can ask me about your goals, progress, transactions, or savings tips. How can I help you today?",
		user.FirstName, user.Currency, user.TotalCurrentlySaved.StringFixed(2), len(goals),
	)
}

// deadlinePhrase renders the days remaining until a goal's target date.
func deadlinePhrase(endDate time.Time) string {
	daysLeft := int(math.Ceil(time.Until(endDate).Hours() / 24))
	if daysLeft > 0 {
		return fmt.Sprintf("%d days remaining", daysLeft)
	}
	return "Overdue"
}

// Package bot is the conversational front of the loyalty program. It maps
// inbound chat messages to domain operations and renders replies; it knows
// nothing about the transport carrying the messages.
package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foxden/kitsune/internal/loyalty"
	"github.com/foxden/kitsune/internal/redemption"
	"github.com/foxden/kitsune/internal/store"
)

// Update is one inbound message from a sender.
type Update struct {
	SenderID   int64
	SenderName string
	Text       string
}

// Reply is what the transport should send back. Keyboard rows, when present,
// replace the sender's reply keyboard.
type Reply struct {
	Text     string     `json:"text"`
	Keyboard [][]string `json:"keyboard,omitempty"`
	Markdown bool       `json:"markdown,omitempty"`
}

// visitSource tags visit events recorded through the chat flow.
const visitSource = "admin_scan"

type Engine struct {
	guests   *store.GuestStore
	notes    *store.TastingNoteStore
	visits   *store.VisitStore
	redeemer *redemption.Service
	ladder   loyalty.Ladder
	staffIDs map[int64]struct{}
	sessions *SessionTable
	logger   *slog.Logger
}

func NewEngine(
	guests *store.GuestStore,
	notes *store.TastingNoteStore,
	visits *store.VisitStore,
	redeemer *redemption.Service,
	ladder loyalty.Ladder,
	staffIDs []int64,
	logger *slog.Logger,
) *Engine {
	ids := make(map[int64]struct{}, len(staffIDs))
	for _, id := range staffIDs {
		ids[id] = struct{}{}
	}
	return &Engine{
		guests:   guests,
		notes:    notes,
		visits:   visits,
		redeemer: redeemer,
		ladder:   ladder,
		staffIDs: ids,
		sessions: NewSessionTable(),
		logger:   logger,
	}
}

// IsStaff reports whether the sender may record visits.
func (e *Engine) IsStaff(senderID int64) bool {
	_, ok := e.staffIDs[senderID]
	return ok
}

// Handle processes one inbound message to completion and returns the reply.
// Commands and menu presses abandon any in-flight input sequence.
func (e *Engine) Handle(u Update) Reply {
	text := strings.TrimSpace(u.Text)

	if strings.HasPrefix(text, "/") {
		e.sessions.Clear(u.SenderID)
		return e.handleCommand(u, text)
	}

	if reply, ok := e.handleMenu(u, text); ok {
		return reply
	}

	if reply, ok := e.advanceSequence(u, text); ok {
		return reply
	}

	return Reply{
		Text:     "I did not catch that. Pick something from the menu below.",
		Keyboard: MainMenu(e.IsStaff(u.SenderID)),
	}
}

func (e *Engine) handleCommand(u Update, text string) Reply {
	name, args, _ := strings.Cut(text, " ")
	args = strings.TrimSpace(args)

	switch name {
	case "/start":
		return e.welcome(u)
	case "/visit":
		if !e.IsStaff(u.SenderID) {
			return Reply{Text: "This command is for staff only."}
		}
		if args == "" {
			return Reply{Text: "Usage: /visit KITSUNE-XXXXXXXXXXXX"}
		}
		return e.redeemReply(args)
	default:
		return Reply{Text: fmt.Sprintf("Unknown command %s. Try /start.", name)}
	}
}

func (e *Engine) handleMenu(u Update, text string) (Reply, bool) {
	switch text {
	case btnProfile, btnLoyalty, btnNotebook, btnAddNote, btnMyCode, btnPromotions, btnRecordVisit:
		// A menu press abandons any in-flight sequence.
		e.sessions.Clear(u.SenderID)
	default:
		return Reply{}, false
	}

	switch text {
	case btnProfile:
		return e.profile(u), true
	case btnLoyalty:
		return e.loyaltyStatus(u), true
	case btnNotebook:
		return e.notebook(u), true
	case btnAddNote:
		e.sessions.Set(u.SenderID, Session{State: StateAwaitingTeaName})
		return Reply{Text: "Which tea did you drink? Send me the name."}, true
	case btnMyCode:
		return e.myCode(u), true
	case btnPromotions:
		return e.promotions(u), true
	default: // btnRecordVisit
		if !e.IsStaff(u.SenderID) {
			return Reply{Text: "This button is for staff only."}, true
		}
		e.sessions.Set(u.SenderID, Session{State: StateAwaitingCode})
		return Reply{Text: "Send the guest's code (or the text from their QR) to record a visit."}, true
	}
}

func (e *Engine) advanceSequence(u Update, text string) (Reply, bool) {
	session := e.sessions.Get(u.SenderID)

	switch session.State {
	case StateAwaitingTeaName:
		session.TeaName = text
		session.State = StateAwaitingTaste
		e.sessions.Set(u.SenderID, session)
		return Reply{Text: "Describe the taste (for example: honeyed, floral, brisk)."}, true

	case StateAwaitingTaste:
		session.Taste = text
		session.State = StateAwaitingImpression
		e.sessions.Set(u.SenderID, session)
		return Reply{Text: "And your impression? What did you enjoy most?"}, true

	case StateAwaitingImpression:
		e.sessions.Clear(u.SenderID)
		if _, err := e.notes.Add(u.SenderID, session.TeaName, session.Taste, text); err != nil {
			return e.failure("add note", err), true
		}
		return Reply{Text: "Done! 🍵 The entry is in your tea notebook."}, true

	case StateAwaitingCode:
		e.sessions.Clear(u.SenderID)
		return e.redeemReply(text), true
	}

	return Reply{}, false
}

func (e *Engine) welcome(u Update) Reply {
	guest, err := e.guests.GetOrCreate(u.SenderID, u.SenderName)
	if err != nil {
		return e.failure("get or create guest", err)
	}
	text := "🦊 *Welcome to the Kitsune Tea House!*\n\n" +
		"Here you can:\n" +
		"• keep a personal tea notebook;\n" +
		"• collect visits and bonus points;\n" +
		"• show your personal code to join promotions.\n\n" +
		fmt.Sprintf("Your guest code: `%s`", guest.RedemptionCode)
	return Reply{
		Text:     text,
		Keyboard: MainMenu(e.IsStaff(u.SenderID)),
		Markdown: true,
	}
}

func (e *Engine) profile(u Update) Reply {
	guest, err := e.guests.GetOrCreate(u.SenderID, u.SenderName)
	if err != nil {
		return e.failure("get or create guest", err)
	}
	visits, err := e.visits.CountByGuest(guest.ExternalID)
	if err != nil {
		return e.failure("count visits", err)
	}
	points := loyalty.PointsFromVisits(visits)
	tier := e.ladder.TierForPoints(points)
	return Reply{Text: fmt.Sprintf(
		"👤 %s\nVisits: %d\nPoints: %d\nStatus: %s\nTier reward: %s",
		guest.DisplayName, visits, points, tier.Name, tier.Reward,
	)}
}

func (e *Engine) loyaltyStatus(u Update) Reply {
	visits, err := e.visits.CountByGuest(u.SenderID)
	if err != nil {
		return e.failure("count visits", err)
	}
	points := loyalty.PointsFromVisits(visits)
	tier := e.ladder.TierForPoints(points)

	text := fmt.Sprintf("🎁 Your level: *%s*\nPoints: *%d*\nCurrent reward: _%s_", tier.Name, points, tier.Reward)
	if next, ok := e.ladder.NextTier(points); ok {
		text += fmt.Sprintf("\n\n%d points to go until *%s*.", next.MinPoints-points, next.Name)
	} else {
		text += "\n\nYou have reached the top level! ✨"
	}
	return Reply{Text: text, Markdown: true}
}

func (e *Engine) notebook(u Update) Reply {
	notes, err := e.notes.ListRecent(u.SenderID, 10)
	if err != nil {
		return e.failure("list notes", err)
	}
	if len(notes) == 0 {
		return Reply{Text: fmt.Sprintf("No entries yet. Press %q to start your notebook.", btnAddNote)}
	}

	lines := []string{"📓 *Latest entries:*\n"}
	for i, n := range notes {
		lines = append(lines, fmt.Sprintf(
			"%d. *%s*\nTaste: %s\nImpression: %s\nDate: %s\n",
			i+1, n.TeaName, n.Taste, n.Impression, n.CreatedAt.Format("2006-01-02"),
		))
	}
	return Reply{Text: strings.Join(lines, "\n"), Markdown: true}
}

func (e *Engine) myCode(u Update) Reply {
	guest, err := e.guests.GetOrCreate(u.SenderID, u.SenderName)
	if err != nil {
		return e.failure("get or create guest", err)
	}
	return Reply{
		Text:     fmt.Sprintf("Show this code to have your visit counted:\n\n`%s`", guest.RedemptionCode),
		Markdown: true,
	}
}

func (e *Engine) promotions(u Update) Reply {
	visits, err := e.visits.CountByGuest(u.SenderID)
	if err != nil {
		return e.failure("count visits", err)
	}
	points := loyalty.PointsFromVisits(visits)
	text := "📣 *Kitsune Tea House promotions*\n" +
		"• Visit before noon — 5 bonus points.\n" +
		"• Bring a friend — a mini tasting for you both.\n" +
		"• Every 10th visit — a dessert on the house.\n\n" +
		fmt.Sprintf("You currently have %d points.", points)
	return Reply{Text: text, Markdown: true}
}

func (e *Engine) redeemReply(code string) Reply {
	receipt, err := e.redeemer.Redeem(code, visitSource)
	if errors.Is(err, redemption.ErrCodeNotFound) {
		return Reply{Text: "No guest found for that code. Double-check the QR."}
	}
	if err != nil {
		return e.failure("redeem", err)
	}
	return Reply{Text: fmt.Sprintf(
		"✅ Visit recorded. Total visits: %d, points: %d.",
		receipt.Visits, receipt.Points,
	)}
}

func (e *Engine) failure(op string, err error) Reply {
	e.logger.Error("bot operation failed", "op", op, "error", err)
	return Reply{Text: "Something went wrong on our side. Please try again."}
}

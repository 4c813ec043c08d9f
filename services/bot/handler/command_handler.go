package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"auction-bot/internal/auctionerrors"
	model "auction-bot/internal/models"
	"auction-bot/internal/telegram"
	"auction-bot/services/bot/helpers"
	"auction-bot/utils"
)

const helpText = `Commands:
register - join the marketplace
createitem <name> <low> <high> [<durationMinutes> <low|high>] - put an item up for auction
bid <name> <amount> - place a bid
currentbid <name> - show the highest bid on an item
items - list open items
biddeditems - list items that have received bids
help - show this message`

// AuctionServiceInterface is the slice of the auction service the bot needs
type AuctionServiceInterface interface {
	Register(userID, chatID int64, username string) (bool, error)
	CreateItem(name string, creatorID int64, low, high float64, duration time.Duration, direction model.BidDirection) (model.Item, error)
	SetDirection(name string, direction model.BidDirection) error
	PlaceBid(itemName string, bidderID int64, amount float64) (model.Bid, error)
	CurrentBid(itemName string) (float64, error)
	ListItems() ([]model.Item, error)
	ListBiddedItems() ([]model.Item, error)
}

// CommandHandler parses chat commands and callbacks into service calls and
// formats exactly one reply per command, success or failure.
type CommandHandler struct {
	service AuctionServiceInterface
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(service AuctionServiceInterface) *CommandHandler {
	return &CommandHandler{service: service}
}

// HandleCommand processes one inbound command message
func (h *CommandHandler) HandleCommand(userID, chatID int64, username, text string) (string, *telegram.InlineKeyboardMarkup) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	command := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	// strip the @BotName suffix used in group chats
	if i := strings.Index(command, "@"); i >= 0 {
		command = command[:i]
	}
	args := fields[1:]

	switch command {
	case "register", "start":
		return h.register(userID, chatID, username), nil
	case "createitem":
		return h.createItem(userID, args)
	case "bid":
		return h.placeBid(userID, args), nil
	case "currentbid":
		return h.currentBid(args), nil
	case "items":
		return h.listItems(false), nil
	case "biddeditems":
		return h.listItems(true), nil
	case "help":
		return helpText, nil
	default:
		return "Unknown command. Send help for the list of commands.", nil
	}
}

// HandleCallback processes an inline-keyboard button press carrying
// {action, item, direction}.
func (h *CommandHandler) HandleCallback(userID, chatID int64, data string) string {
	payload, err := helpers.DecodeCallback(data)
	if err != nil {
		utils.Warn("ignoring malformed callback", map[string]any{"user_id": userID, "error": err.Error()})
		return ""
	}
	if payload.Action != "direction" {
		return ""
	}

	if err := h.service.SetDirection(payload.Item, model.BidDirection(payload.Direction)); err != nil {
		utils.Warn("callback rejected", map[string]any{
			"user_id": userID,
			"item":    payload.Item,
			"error":   err.Error(),
		})
		return helpers.MapErrorToReply(err)
	}
	return fmt.Sprintf("Bids on %q now move toward the %s end of the range.", payload.Item, payload.Direction)
}

func (h *CommandHandler) register(userID, chatID int64, username string) string {
	already, err := h.service.Register(userID, chatID, username)
	if err != nil {
		utils.Error("register failed", map[string]any{"user_id": userID, "error": err.Error()})
		return helpers.MapErrorToReply(err)
	}
	if already {
		return "You are already registered."
	}
	return "Welcome! You are registered. Send help for the list of commands."
}

func (h *CommandHandler) createItem(userID int64, args []string) (string, *telegram.InlineKeyboardMarkup) {
	if len(args) != 3 && len(args) != 5 {
		return "Usage: createitem <name> <low> <high> [<durationMinutes> <low|high>]", nil
	}

	name := args[0]
	low, errLow := strconv.ParseFloat(args[1], 64)
	high, errHigh := strconv.ParseFloat(args[2], 64)
	if errLow != nil || errHigh != nil {
		return "The low and high amounts must be numbers.", nil
	}

	var duration time.Duration
	direction := model.DirectionNone
	if len(args) == 5 {
		minutes, err := strconv.Atoi(args[3])
		if err != nil || minutes <= 0 {
			return "The duration must be a positive number of minutes.", nil
		}
		duration = time.Duration(minutes) * time.Minute
		direction = model.BidDirection(strings.ToLower(args[4]))
		if direction != model.DirectionLow && direction != model.DirectionHigh {
			return "The direction must be low or high.", nil
		}
	}

	item, err := h.service.CreateItem(name, userID, low, high, duration, direction)
	if err != nil {
		utils.Error("createitem failed", map[string]any{"user_id": userID, "item": name, "error": err.Error()})
		return helpers.MapErrorToReply(err), nil
	}

	reply := fmt.Sprintf("Item %q is up for auction with a bid range of %.2f to %.2f.", item.Name, item.LowAmount, item.HighAmount)
	if item.EndTime != nil {
		reply = fmt.Sprintf("%s The auction ends at %s.", reply, item.EndTime.UTC().Format(time.RFC3339))
	}
	if item.Direction != model.DirectionNone {
		return reply, nil
	}
	// no direction chosen yet, offer the picker
	return reply + " Pick a bid direction:", directionKeyboard(item.Name)
}

// directionKeyboard builds the low/high inline picker for a freshly created item
func directionKeyboard(itemName string) *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{
			{
				Text:         "Toward low",
				CallbackData: helpers.CallbackPayload{Action: "direction", Item: itemName, Direction: "low"}.Encode(),
			},
			{
				Text:         "Toward high",
				CallbackData: helpers.CallbackPayload{Action: "direction", Item: itemName, Direction: "high"}.Encode(),
			},
		}},
	}
}

func (h *CommandHandler) placeBid(userID int64, args []string) string {
	if len(args) != 2 {
		return "Usage: bid <name> <amount>"
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return "The bid amount must be a number."
	}

	bid, err := h.service.PlaceBid(args[0], userID, amount)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrBidTooLow) {
			// reference the amount that beat this bid
			if current, curErr := h.service.CurrentBid(args[0]); curErr == nil {
				return fmt.Sprintf("Bid rejected: the current highest bid is %.2f.", current)
			}
			return "Bid rejected: a higher bid already exists."
		}
		utils.Warn("bid rejected", map[string]any{"user_id": userID, "item": args[0], "error": err.Error()})
		return helpers.MapErrorToReply(err)
	}
	return fmt.Sprintf("Your bid of %.2f on %q is accepted and currently winning.", bid.Amount, bid.ItemName)
}

func (h *CommandHandler) currentBid(args []string) string {
	if len(args) != 1 {
		return "Usage: currentbid <name>"
	}
	amount, err := h.service.CurrentBid(args[0])
	if err != nil {
		return helpers.MapErrorToReply(err)
	}
	return fmt.Sprintf("The current highest bid on %q is %.2f.", args[0], amount)
}

func (h *CommandHandler) listItems(biddedOnly bool) string {
	var (
		items []model.Item
		err   error
	)
	if biddedOnly {
		items, err = h.service.ListBiddedItems()
	} else {
		items, err = h.service.ListItems()
	}
	if err != nil {
		utils.Error("list items failed", map[string]any{"error": err.Error()})
		return helpers.MapErrorToReply(err)
	}
	if len(items) == 0 {
		return "There are no items up for auction right now."
	}

	var sb strings.Builder
	sb.WriteString("Items up for auction:\n")
	for _, item := range items {
		sb.WriteString(formatItem(item))
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatItem renders one item summary line
func formatItem(item model.Item) string {
	line := fmt.Sprintf("%s: range %.2f-%.2f", item.Name, item.LowAmount, item.HighAmount)
	if item.Direction != model.DirectionNone {
		line += fmt.Sprintf(", direction %s", item.Direction)
	}
	if item.HighestBid != nil {
		line += fmt.Sprintf(", highest bid %.2f", item.HighestBid.Amount)
	} else {
		line += ", no bids yet"
	}
	if item.EndTime != nil {
		line += fmt.Sprintf(", ends %s", item.EndTime.UTC().Format(time.RFC3339))
	}
	return line
}

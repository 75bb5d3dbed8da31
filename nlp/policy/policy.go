// Package policy decides what the bot says for a classified turn: reply
// text, slot-filling prompts, and escalation directives. Decide is a pure
// function of its inputs; the orchestrator acts on the directives.
package policy

import (
	"fmt"
	"strings"

	"github.com/hrygo/chatdesk/nlp/entity"
	"github.com/hrygo/chatdesk/nlp/faq"
)

// SafeReply is the generic clarification used when no rule produces a reply.
const SafeReply = "Sorry — I didn't fully catch that. Could you rephrase or give a bit more detail?"

// Next-action tags attached to decisions that need downstream work.
const (
	ActionRequestSlots       = "request_slots"
	ActionFulfillTrackOrder  = "fulfill_track_order"
	ActionFulfillRefund      = "fulfill_refund_status"
	ActionFulfillCancelOrder = "fulfill_cancel_order"
)

// Ticket subjects for the two escalation paths.
const (
	SubjectUserRequested  = "User requested human agent"
	SubjectAutoEscalation = "Auto-escalation - low confidence"
)

// intentTemplates maps intents to canned reply openers. Intents without a
// template start with an empty reply, which is not an error.
var intentTemplates = map[string]string{
	"greet":            "Hey there! I'm here to help. You can ask about orders, returns, refunds, shipping, or say 'talk to human' to get an agent.",
	"goodbye":          "Thanks for dropping by — have a lovely day!",
	"thanks":           "You're welcome! Happy to help.",
	"return_policy":    "You can return most items within 30 days of delivery. Want me to start a return? Please share your order ID.",
	"refund_status":    "I can check that — please share your order ID so I can fetch the refund status.",
	"product_info":     "Tell me the product name or SKU and I'll pull up the details.",
	"shipping_info":    "Standard shipping is usually 3-7 business days. Want the exact ETA for your order? Share the order ID.",
	"cancel_order":     "I can try to cancel that — share your order ID and I'll check if it's still cancellable.",
	"payment_issue":    "Sorry about that. Share the transaction/order ID and I'll look into the payment status.",
	"exchange_request": "Sure — share your order ID and the size/color you'd like to exchange to, and I'll guide you.",
}

// requiredSlots lists the entity slots an intent needs before fulfillment.
// Order matters: missing-slot prompts are emitted in declaration order.
var requiredSlots = map[string][]string{
	"track_order":      {entity.SlotOrderID},
	"refund_status":    {entity.SlotOrderID},
	"cancel_order":     {entity.SlotOrderID},
	"exchange_request": {entity.SlotOrderID},
}

var slotPrompts = map[string]string{
	entity.SlotOrderID: "Please share your order ID (e.g., 123-4567890-1234567).",
	entity.SlotEmail:   "Can you provide the email used on the order?",
	entity.SlotPhone:   "Please share the phone number linked to the order.",
}

// Decision is the terminal output of the policy for one turn. CreateTicket
// and NextAction are directives for the orchestrator, never acted on here.
type Decision struct {
	Reply         string
	NextAction    string
	CreateTicket  bool
	TicketSubject string
}

// Policy holds the confidence thresholds the decision tree branches on.
// Construct once at startup; Decide is safe for concurrent use.
type Policy struct {
	// MinConfidence: below this the bot asks clarification or uses FAQ if available.
	MinConfidence float64
	// AutoEscalateConfidence: below this, and no strong FAQ, escalate to human.
	AutoEscalateConfidence float64
	// FAQThreshold: minimum FAQ score accepted on the low-confidence path.
	FAQThreshold float64
	// StrongFAQThreshold: minimum FAQ score that overrides an empty reply.
	StrongFAQThreshold float64
}

// New returns a policy with the default thresholds.
func New() *Policy {
	return &Policy{
		MinConfidence:          0.40,
		AutoEscalateConfidence: 0.30,
		FAQThreshold:           0.35,
		StrongFAQThreshold:     0.50,
	}
}

// Decide evaluates the decision tree top to bottom; the first matching rule
// terminates evaluation. Every input combination yields a decision.
func (p *Policy) Decide(intent string, confidence float64, entities entity.Set, faqMatch faq.Match) Decision {
	// Explicit escalation bypasses every confidence check.
	if intent == "escalate" {
		return Decision{
			Reply:         "Got it — connecting you to a human agent. I've raised a ticket and our team will reach out shortly.",
			CreateTicket:  true,
			TicketSubject: SubjectUserRequested,
		}
	}

	// Low confidence: try FAQ, else ask for clarification or escalate if very low.
	if confidence < p.MinConfidence {
		if faqMatch.Answer != nil && faqMatch.Score >= p.FAQThreshold {
			return Decision{Reply: *faqMatch.Answer}
		}
		if confidence < p.AutoEscalateConfidence {
			return Decision{
				Reply:         "I'm having trouble here — I'll connect you with a human agent so we can resolve this quickly.",
				CreateTicket:  true,
				TicketSubject: SubjectAutoEscalation,
			}
		}
		return Decision{Reply: SafeReply}
	}

	// Normal flow using templates.
	reply := intentTemplates[intent]

	if required, ok := requiredSlots[intent]; ok {
		var missing []string
		for _, slot := range required {
			if _, present := entities[slot]; !present {
				missing = append(missing, slot)
			}
		}
		if len(missing) > 0 {
			prompts := make([]string, 0, len(missing))
			for _, slot := range missing {
				if prompt, ok := slotPrompts[slot]; ok {
					prompts = append(prompts, prompt)
				}
			}
			if reply != "" {
				reply += "\n"
			}
			return Decision{
				Reply:      reply + strings.Join(prompts, "\n"),
				NextAction: ActionRequestSlots,
			}
		}

		// Fulfill simulated actions. exchange_request deliberately has no
		// fulfillment branch and falls through to the FAQ/default rules.
		switch intent {
		case "track_order":
			return Decision{
				Reply:      fmt.Sprintf("Thanks — tracking order %s... Current status: Out for delivery. ETA: 2 days.", entities[entity.SlotOrderID]),
				NextAction: ActionFulfillTrackOrder,
			}
		case "refund_status":
			return Decision{
				Reply:      fmt.Sprintf("Checking refund for order %s... Status: Processed — funds will reflect in 2-3 business days.", entities[entity.SlotOrderID]),
				NextAction: ActionFulfillRefund,
			}
		case "cancel_order":
			return Decision{
				Reply:      fmt.Sprintf("Okay — checking if order %s can be cancelled... It looks cancellable. I've started cancellation.", entities[entity.SlotOrderID]),
				NextAction: ActionFulfillCancelOrder,
			}
		}
	}

	// No reply yet: a strong FAQ match beats the generic fallback.
	if reply == "" && faqMatch.Answer != nil && faqMatch.Score >= p.StrongFAQThreshold {
		return Decision{Reply: *faqMatch.Answer}
	}

	if reply == "" {
		reply = SafeReply
	}
	return Decision{Reply: reply}
}

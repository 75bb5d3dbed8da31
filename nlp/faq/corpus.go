package faq

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadCSV reads a question,answer corpus from a CSV file. A header row named
// "question,answer" is skipped. Rows with fewer than two columns are ignored.
func LoadCSV(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open faq corpus %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var corpus []Entry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read faq corpus %s", path)
		}
		if len(record) < 2 {
			continue
		}
		question := strings.TrimSpace(record[0])
		answer := strings.TrimSpace(record[1])
		if question == "" || strings.EqualFold(question, "question") {
			continue
		}
		corpus = append(corpus, Entry{Question: question, Answer: answer})
	}

	return corpus, nil
}

// DefaultCorpus returns the built-in FAQ pairs used when no corpus file is
// configured.
func DefaultCorpus() []Entry {
	return []Entry{
		{
			Question: "What is your return policy?",
			Answer:   "You can return most items within 30 days of delivery. Want me to start a return? Please share your order ID.",
		},
		{
			Question: "How long does shipping take?",
			Answer:   "Standard shipping is usually 3-7 business days. Express options are available at checkout.",
		},
		{
			Question: "How do I track my order?",
			Answer:   "Share your order ID (e.g., 123-4567890-1234567) and I'll look up the latest tracking status.",
		},
		{
			Question: "When will I get my refund?",
			Answer:   "Refunds are processed within 2-3 business days after we receive the returned item.",
		},
		{
			Question: "How do I cancel my order?",
			Answer:   "Orders can be cancelled before they ship. Share your order ID and I'll check if it's still cancellable.",
		},
		{
			Question: "My payment failed, what should I do?",
			Answer:   "Double-check your card details and billing address. If the charge still fails, share the order ID and I'll look into the payment status.",
		},
		{
			Question: "Do you ship internationally?",
			Answer:   "Yes, we ship to most countries. International delivery usually takes 7-14 business days.",
		},
		{
			Question: "How do I exchange an item for a different size?",
			Answer:   "Share your order ID and the size or color you'd like instead, and I'll guide you through the exchange.",
		},
		{
			Question: "How do I talk to a human agent?",
			Answer:   "Say 'talk to human' any time and I'll raise a ticket so an agent reaches out to you.",
		},
	}
}

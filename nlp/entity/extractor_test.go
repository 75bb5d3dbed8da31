package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Set
	}{
		{
			name: "order id and email",
			text: "my order is 123-4567890-1234567 email me at a@b.com",
			want: Set{
				SlotOrderID: "123-4567890-1234567",
				SlotEmail:   "a@b.com",
			},
		},
		{
			name: "phone number",
			text: "call me at +1 555 0100 9876",
			want: Set{
				SlotPhone: "+1 555 0100 9876",
			},
		},
		{
			name: "order id is not a phone",
			text: "order 123-4567890-1234567 please",
			want: Set{
				SlotOrderID: "123-4567890-1234567",
			},
		},
		{
			name: "first match wins per slot",
			text: "orders 123-4567890-1234567 and 999-8888888-7777777",
			want: Set{
				SlotOrderID: "123-4567890-1234567",
			},
		},
		{
			name: "no entities",
			text: "hello there",
			want: Set{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

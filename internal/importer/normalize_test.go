package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Plain digits pass through", input: "11987654321", want: "11987654321"},
		{name: "Formatted number keeps only digits", input: "+55 (11) 98765-4321", want: "5511987654321"},
		{name: "Letters are dropped", input: "tel: 1234", want: "1234"},
		{name: "Whitespace only becomes empty", input: "   ", want: ""},
		{name: "No digits becomes empty", input: "abc-def", want: ""},
		{name: "Empty stays empty", input: "", want: ""},
		{name: "Leading zeros are kept", input: "011 98765", want: "01198765"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{"+55 (11) 98765-4321", "11987654321", "abc", ""}
	for _, input := range inputs {
		once := NormalizePhone(input)
		assert.Equal(t, once, NormalizePhone(once))
	}
}

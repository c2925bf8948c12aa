package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapRow(t *testing.T) {
	tests := []struct {
		name   string
		row    RawRow
		want   ImportRow
		wantOK bool
	}{
		{
			name:   "Canonical headers",
			row:    RawRow{"nome": "Ana", "telefone": "11 99999-0001"},
			want:   ImportRow{Nome: "Ana", TelefoneRaw: "11 99999-0001"},
			wantOK: true,
		},
		{
			name:   "Headers are case-insensitive",
			row:    RawRow{"Nome": "Bia", "TELEFONE": "11 99999-0002"},
			want:   ImportRow{Nome: "Bia", TelefoneRaw: "11 99999-0002"},
			wantOK: true,
		},
		{
			name:   "Contato is a phone synonym",
			row:    RawRow{"nome": "Caio", "contato": "11 99999-0003"},
			want:   ImportRow{Nome: "Caio", TelefoneRaw: "11 99999-0003"},
			wantOK: true,
		},
		{
			name:   "Telefone wins over contato",
			row:    RawRow{"nome": "Davi", "telefone": "111", "contato": "222"},
			want:   ImportRow{Nome: "Davi", TelefoneRaw: "111"},
			wantOK: true,
		},
		{
			name:   "Values are trimmed",
			row:    RawRow{"nome": "  Eva  ", "telefone": " 333 "},
			want:   ImportRow{Nome: "Eva", TelefoneRaw: "333"},
			wantOK: true,
		},
		{
			name:   "Missing name drops the row",
			row:    RawRow{"telefone": "11 99999-0004"},
			wantOK: false,
		},
		{
			name:   "Blank name drops the row",
			row:    RawRow{"nome": "   ", "telefone": "11 99999-0005"},
			wantOK: false,
		},
		{
			name:   "Missing phone drops the row",
			row:    RawRow{"nome": "Gil"},
			wantOK: false,
		},
		{
			name:   "Unrelated headers are ignored",
			row:    RawRow{"nome": "Hugo", "telefone": "444", "email": "hugo@example.com"},
			want:   ImportRow{Nome: "Hugo", TelefoneRaw: "444"},
			wantOK: true,
		},
		{
			name:   "Formatting-only phone still passes the mapper",
			row:    RawRow{"nome": "Iris", "telefone": "---"},
			want:   ImportRow{Nome: "Iris", TelefoneRaw: "---"},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MapRow(tt.row)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMapRows_KeepsOrderAndDropsInvalid(t *testing.T) {
	rows := []RawRow{
		{"nome": "Ana", "telefone": "111"},
		{"nome": "", "telefone": "222"},
		{"nome": "Bia", "contato": "333"},
		{"nome": "Caio"},
		{"nome": "Davi", "telefone": "444"},
	}

	mapped := MapRows(rows)

	assert.Equal(t, []ImportRow{
		{Nome: "Ana", TelefoneRaw: "111"},
		{Nome: "Bia", TelefoneRaw: "333"},
		{Nome: "Davi", TelefoneRaw: "444"},
	}, mapped)
}

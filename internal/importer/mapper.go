package importer

import "strings"

// ImportRow is one candidate contact produced by the field mapper. The
// phone is carried raw; normalization happens during reconciliation.
type ImportRow struct {
	Nome        string `json:"nome"`
	TelefoneRaw string `json:"telefone"`
}

// fieldSynonyms maps each canonical field to the lowercase header names
// that may carry it. Lookup is case-insensitive, so "Nome", "NOME" and
// "nome" all resolve to the same column.
var fieldSynonyms = map[string][]string{
	"nome":     {"nome"},
	"telefone": {"telefone", "contato"},
}

// MapRow extracts a candidate contact from one raw row mapping. The second
// return value is false when the row must be discarded: either the name or
// the mapped phone field is empty after trimming. This gate runs before
// normalization, so a phone made of pure formatting still passes here and
// is dropped later by the reconciliation engine.
func MapRow(row RawRow) (ImportRow, bool) {
	folded := make(map[string]string, len(row))
	for key, value := range row {
		folded[strings.ToLower(strings.TrimSpace(key))] = value
	}

	nome := lookupField(folded, "nome")
	telefone := lookupField(folded, "telefone")

	if nome == "" || telefone == "" {
		return ImportRow{}, false
	}

	return ImportRow{Nome: nome, TelefoneRaw: telefone}, true
}

// MapRows applies MapRow over a batch, keeping input order and dropping
// invalid rows.
func MapRows(rows []RawRow) []ImportRow {
	mapped := make([]ImportRow, 0, len(rows))
	for _, row := range rows {
		if imported, ok := MapRow(row); ok {
			mapped = append(mapped, imported)
		}
	}
	return mapped
}

func lookupField(folded map[string]string, field string) string {
	for _, synonym := range fieldSynonyms[field] {
		if value, ok := folded[synonym]; ok {
			trimmed := strings.TrimSpace(value)
			if trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

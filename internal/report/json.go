package report

import (
	"encoding/json"

	"github.com/auriti-labs/geo-optimizer/internal/audit"
	"github.com/auriti-labs/geo-optimizer/internal/i18n"
)

// JSON renders the indented AuditResult. Recommendations are left untranslated.
func JSON(r *audit.AuditResult, _ *i18n.Translator) (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

package warnengine

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Export formats understood by ExportWarningData.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// csvHeader is the fixed column order of the delimited export.
const csvHeader = "id,userId,reason,moderator,severity,createdAt,expiresAt,expired,removed,removedBy,removedReason"

// ExportWarningData serializes every warning of a guild. JSON output is a
// pretty-printed array; CSV output quotes any field containing the
// delimiter, quotes or newlines.
func (e *Engine) ExportWarningData(guildID, format string) (string, error) {
	warns, err := e.GetAllWarnings(guildID)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(format) {
	case FormatJSON:
		if warns == nil {
			warns = []GuildWarning{}
		}
		data, err := json.MarshalIndent(warns, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil

	case FormatCSV:
		var b strings.Builder
		b.WriteString(csvHeader)
		b.WriteByte('\n')
		for _, w := range warns {
			row := []string{
				w.ID,
				w.UserID,
				csvField(w.Reason),
				w.Moderator,
				string(w.Severity),
				strconv.FormatInt(w.CreatedAt, 10),
				strconv.FormatInt(w.ExpiresAt, 10),
				strconv.FormatBool(w.Expired),
				strconv.FormatBool(w.Removed),
				w.RemovedBy,
				csvField(w.RemovedReason),
			}
			b.WriteString(strings.Join(row, ","))
			b.WriteByte('\n')
		}
		return b.String(), nil

	default:
		return "", ErrUnknownFormat
	}
}

// csvField quotes a value when it contains the delimiter, a quote or a
// newline, doubling embedded quotes.
func csvField(v string) string {
	if !strings.ContainsAny(v, ",\"\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

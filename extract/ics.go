package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/oxbridge-econ/knowledge-base/core"
)

// ICSExtractor parses iCalendar files into one item per VEVENT.
//
// Calendar files from sync feeds have no stable per-file identity, so each
// item carries an event seed derived from the file bytes and filename;
// downstream id derivation uses it to keep re-ingested events idempotent.
type ICSExtractor struct{}

// NewICSExtractor creates an iCalendar extractor.
func NewICSExtractor() *ICSExtractor {
	return &ICSExtractor{}
}

type icsEvent struct {
	summary     string
	description string
	location    string
	organizer   string
	start       string
	end         string
}

// Extract parses VEVENT blocks. Events without any text content are
// skipped.
func (e *ICSExtractor) Extract(_ context.Context, name string, data []byte) ([]Item, error) {
	events := parseICS(string(data))
	if len(events) == 0 {
		return nil, nil
	}

	sum := sha256.Sum256(data)
	seed := hex.EncodeToString(sum[:]) + name

	var items []Item
	for i, ev := range events {
		text := ev.render()
		if text == "" {
			continue
		}

		title := ev.summary
		if title == "" {
			title = titleFromName(name)
		}

		meta := map[string]string{
			core.MetaTitle:     title,
			core.MetaEventSeed: seed,
			core.MetaPage:      strconv.Itoa(i + 1),
		}
		if ev.start != "" {
			meta[core.MetaDate] = ev.start
		}
		items = append(items, Item{Text: text, Metadata: meta})
	}
	return items, nil
}

func (ev icsEvent) render() string {
	var b strings.Builder
	write := func(label, value string) {
		if value == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(value)
	}
	write("Event", ev.summary)
	write("Start", ev.start)
	write("End", ev.end)
	write("Location", ev.location)
	write("Organizer", ev.organizer)
	write("Description", ev.description)
	return b.String()
}

// parseICS walks the unfolded lines of an iCalendar stream and collects
// VEVENT properties. It tolerates malformed input: anything outside a
// VEVENT block or without a colon is ignored.
func parseICS(content string) []icsEvent {
	lines := unfoldICS(content)

	var events []icsEvent
	var current *icsEvent

	for _, line := range lines {
		nameAndParams, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		prop := strings.ToUpper(nameAndParams)
		if i := strings.IndexByte(prop, ';'); i >= 0 {
			prop = prop[:i] // drop property parameters such as TZID
		}
		value = unescapeICS(strings.TrimSpace(value))

		switch prop {
		case "BEGIN":
			if strings.EqualFold(value, "VEVENT") {
				current = &icsEvent{}
			}
		case "END":
			if strings.EqualFold(value, "VEVENT") && current != nil {
				events = append(events, *current)
				current = nil
			}
		case "SUMMARY":
			if current != nil {
				current.summary = value
			}
		case "DESCRIPTION":
			if current != nil {
				current.description = value
			}
		case "LOCATION":
			if current != nil {
				current.location = value
			}
		case "ORGANIZER":
			if current != nil {
				current.organizer = strings.TrimPrefix(value, "mailto:")
			}
		case "DTSTART":
			if current != nil {
				current.start = formatICSTime(value)
			}
		case "DTEND":
			if current != nil {
				current.end = formatICSTime(value)
			}
		}
	}
	return events
}

// unfoldICS joins RFC 5545 folded lines: a line starting with a space or
// tab continues the previous line.
func unfoldICS(content string) []string {
	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	var lines []string
	for _, line := range raw {
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// unescapeICS reverses RFC 5545 text escaping.
func unescapeICS(value string) string {
	replacer := strings.NewReplacer(
		`\n`, "\n",
		`\N`, "\n",
		`\,`, ",",
		`\;`, ";",
		`\\`, `\`,
	)
	return replacer.Replace(value)
}

// formatICSTime makes a basic-format iCalendar timestamp readable:
// 20240115T100000Z -> 2024-01-15 10:00 UTC. Values that do not look like
// timestamps pass through unchanged.
func formatICSTime(value string) string {
	v := value
	utc := strings.HasSuffix(v, "Z")
	v = strings.TrimSuffix(v, "Z")

	datePart, timePart, hasTime := strings.Cut(v, "T")
	if len(datePart) != 8 || !isDigits(datePart) {
		return value
	}

	out := datePart[0:4] + "-" + datePart[4:6] + "-" + datePart[6:8]
	if hasTime && len(timePart) >= 4 && isDigits(timePart) {
		out += " " + timePart[0:2] + ":" + timePart[2:4]
	}
	if utc {
		out += " UTC"
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

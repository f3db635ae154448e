package docintel

import (
	"regexp"
	"strings"
)

// The extraction works on the OCR text of an identity document. Labeled
// fields are matched first; a few heuristics cover unlabeled layouts.

const datePattern = `(\d{4}[./-]\d{1,2}[./-]\d{1,2}|\d{1,2}[./-]\d{1,2}[./-]\d{2,4})`

var (
	fullNameRx    = regexp.MustCompile(`(?i)(Full\s*Name|Name)\s*[:\-]\s*([A-Za-z' ]{3,})`)
	passportRx    = regexp.MustCompile(`(?i)(Passport|Document|ID|Card|License)\s*(No\.?|Number)\s*[:\-]?\s*([A-Z0-9\-]+)`)
	bareDocNoRx   = regexp.MustCompile(`\b([A-Z]\d{6,9})\b`)
	dobRx         = regexp.MustCompile(`(?i)(DOB|Date\s*of\s*Birth)\s*[:\-]?\s*` + datePattern)
	expiryRx      = regexp.MustCompile(`(?i)(Expiry|Expiration|Exp\. Date|Valid\s*Until)\s*[:\-]?\s*` + datePattern)
	nationalityRx = regexp.MustCompile(`(?i)(Nationality)\s*[:\-]\s*([A-Za-z ]+)`)
	genderRx      = regexp.MustCompile(`(?i)(Gender|Sex)\s*[:\-]\s*(Male|Female|M|F)\b`)
	issuerRx      = regexp.MustCompile(`(?i)(Issuing\s*(Country|Authority)|Issuer)\s*[:\-]\s*([A-Za-z ]+)`)
)

// ExtractFields pulls customer fields out of document text. Only keys
// with non-empty values are returned.
func ExtractFields(text string) map[string]string {
	out := map[string]string{}

	if m := fullNameRx.FindStringSubmatch(text); m != nil {
		out["full_name"] = strings.TrimSpace(m[2])
	} else if name := uppercaseNameLine(text); name != "" {
		out["full_name"] = name
	}
	if full := out["full_name"]; full != "" {
		parts := strings.Fields(full)
		out["first_name"] = parts[0]
		if len(parts) > 1 {
			out["last_name"] = parts[len(parts)-1]
		}
	}

	if m := passportRx.FindStringSubmatch(text); m != nil {
		out["passport_number"] = strings.TrimSpace(m[3])
	} else if m := bareDocNoRx.FindStringSubmatch(text); m != nil {
		out["passport_number"] = m[1]
	}

	if m := dobRx.FindStringSubmatch(text); m != nil {
		if d := normalizeDate(m[2]); d != "" {
			out["date_of_birth"] = d
		}
	}
	if m := expiryRx.FindStringSubmatch(text); m != nil {
		if d := normalizeDate(m[2]); d != "" {
			out["passport_expiry"] = d
		}
	}

	if m := nationalityRx.FindStringSubmatch(text); m != nil {
		out["nationality"] = strings.TrimSpace(m[2])
	}

	if m := genderRx.FindStringSubmatch(text); m != nil {
		switch strings.ToUpper(m[2]) {
		case "M", "MALE":
			out["gender"] = "Male"
		default:
			out["gender"] = "Female"
		}
	}

	if m := issuerRx.FindStringSubmatch(text); m != nil {
		out["passport_issuer"] = strings.TrimSpace(m[3])
	}

	for k, v := range out {
		if v == "" {
			delete(out, k)
		}
	}
	return out
}

// uppercaseNameLine finds an all-caps multi-word line, the usual layout
// for the holder's name on machine-readable documents.
func uppercaseNameLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		compact := strings.ReplaceAll(line, " ", "")
		if !isAlpha(compact) || len(strings.Fields(line)) < 2 {
			continue
		}
		if line != strings.ToUpper(line) {
			continue
		}
		return titleCase(line)
	}
	return ""
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// normalizeDate converts the matched date to YYYY-MM-DD. Both
// year-first and day-first layouts are handled; an unparseable value
// yields an empty string.
func normalizeDate(s string) string {
	if s == "" {
		return ""
	}
	s = strings.NewReplacer(".", "/", "-", "/").Replace(s)
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return ""
	}
	a, b, c := parts[0], parts[1], parts[2]
	if len(a) == 4 {
		return a + "-" + zfill(b, 2) + "-" + zfill(c, 2)
	}
	return zfill(c, 4) + "-" + zfill(b, 2) + "-" + zfill(a, 2)
}

func zfill(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}

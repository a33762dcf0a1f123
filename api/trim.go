package api

import "strings"

const truncated = "[...]"

// TrimStrToRect cuts s to at most maxHeight lines of at most maxWidth bytes.
// Cut lines and a cut tail are marked with "[...]".
func TrimStrToRect(s string, maxHeight int, maxWidth int) string {
	if s == "" {
		return ""
	}
	return strings.Join(trimLines(strings.Split(s, "\n"), maxHeight, maxWidth), "\n")
}

func trimLines(lines []string, maxHeight int, maxWidth int) []string {
	n := len(lines)
	if n > maxHeight {
		n = maxHeight
	}
	res := make([]string, 0, n+1)
	for _, line := range lines[:n] {
		if len(line) > maxWidth {
			line = line[:maxWidth] + truncated
		}
		res = append(res, line)
	}
	if len(lines) > maxHeight {
		res = append(res, truncated)
	}
	return res
}

// Trimmed returns a copy whose reason and decoded logs fit the stream limits
func (m FinishTest) Trimmed() FinishTest {
	if m.Reason != nil {
		r := TrimStrToRect(*m.Reason, MaxStreamLogHeight, MaxStreamLogWidth)
		m.Reason = &r
	}
	if m.DecodedLogs != nil {
		m.DecodedLogs = trimLines(m.DecodedLogs, MaxStreamLogHeight, MaxStreamLogWidth)
	}
	return m
}

package alien

import (
	"errors"
	"strconv"
	"strings"
)

// Wire framing for the ASCII command/response protocol spoken by
// Alien-class readers over serial or TCP.
const (
	// CommandPrefix starts every framed command byte sequence.
	CommandPrefix byte = 0x01
	// Terminator delimits one full response on the wire.
	Terminator byte = 0x00
	// CRLF ends the command text inside a frame.
	CRLF = "\r\n"

	// PasswordPrompt is sent by the reader after the login name.
	PasswordPrompt = "Password>"
	// Banner is the token the command prompt must carry after a
	// successful login.
	Banner = "Alien"

	// NoTagsMarker is the reader's explicit empty tag-list response.
	NoTagsMarker = "(No Tags)"
)

// Error taxonomy. Everything the codec and the client report wraps one
// of these, so callers can classify with errors.Is.
var (
	ErrConnection     = errors.New("alien: connection failure")
	ErrTimeout        = errors.New("alien: timeout")
	ErrProtocol       = errors.New("alien: protocol error")
	ErrAuth           = errors.New("alien: authentication failed")
	ErrValidation     = errors.New("alien: invalid value")
	ErrUnknownSetting = errors.New("alien: unknown setting")
)

// Command frames one command for the wire: 0x01 + text + CRLF.
func Command(text string) []byte {
	frame := make([]byte, 0, len(text)+3)
	frame = append(frame, CommandPrefix)
	frame = append(frame, text...)
	frame = append(frame, CRLF...)
	return frame
}

// TrimEcho strips the echoed command line the reader prepends to a
// response body. Bodies without an echo pass through unchanged.
func TrimEcho(command, body string) string {
	if rest, ok := strings.CutPrefix(body, command+CRLF); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(body, command+"\n"); ok {
		return rest
	}
	return body
}

// Tag is one observed tag from a tag-list response. ID is normalized
// uppercase hex. Antenna is -1 when the reader reported none. Every
// non-Tag field of the line is kept lowercase-keyed in Attrs.
type Tag struct {
	ID      string
	Antenna int
	Attrs   map[string]string
}

// ParseTagList decodes a multi-line tag-list body into tags in response
// order. Lines not starting with "Tag:" (including the no-tags marker)
// are discarded.
func ParseTagList(body string) []Tag {
	var tags []Tag
	for _, line := range strings.Split(body, "\n") {
		line = strings.Trim(line, "\r ")
		if !strings.HasPrefix(line, "Tag:") {
			continue
		}

		tag := Tag{Antenna: -1, Attrs: make(map[string]string)}
		for _, field := range strings.Split(line, ",") {
			key, value, ok := strings.Cut(field, ":")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			if strings.EqualFold(key, "Tag") {
				tag.ID = NormalizeID(value)
				continue
			}
			tag.Attrs[strings.ToLower(key)] = value
		}
		if ant, ok := tag.Attrs["ant"]; ok {
			if n, err := strconv.Atoi(ant); err == nil && n >= 0 {
				tag.Antenna = n
			}
		}
		if tag.ID == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// NormalizeID strips every non-hex character and uppercases the rest.
func NormalizeID(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'F':
			b.WriteRune(r)
		case r >= 'a' && r <= 'f':
			b.WriteRune(r - 'a' + 'A')
		}
	}
	return b.String()
}

// VersionInfo is the decoded form of the reader's version report.
type VersionInfo struct {
	Software    string
	CountryCode string
	ReaderType  string
	Firmware    string
	String      string
}

// ParseVersion decodes the comma-separated "Key: Value" version text.
// Unrecognized keys are ignored; String always carries the raw text.
func ParseVersion(raw string) VersionInfo {
	info := VersionInfo{String: raw}
	for _, field := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(field, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch {
		case strings.EqualFold(key, "Ent. SW Rev"):
			info.Software = value
		case strings.EqualFold(key, "Country Code"):
			info.CountryCode = value
		case strings.EqualFold(key, "Reader Type"):
			info.ReaderType = value
		case strings.HasPrefix(strings.ToLower(key), "firmware"):
			info.Firmware = value
		}
	}
	return info
}

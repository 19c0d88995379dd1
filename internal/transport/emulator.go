package transport

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"alien_rfid_go/internal/protocol/alien"
)

// EmulatorVersion is the canned version report of the emulated reader.
const EmulatorVersion = "Reader Type: RFID-Alien-Reader-Test, Ent. SW Rev: 0.001"

const emulatorTagList = "Tag:8000 8004 3306 5081, CRC:ECBA, Disc:2010/06/20 10:16:12, Count:1, Ant:0\r\n" +
	"Tag:E200 3411 B802 0115 1155 7428, CRC:0A6F, Disc:2010/06/20 10:16:14, Count:3, Ant:0"

// Emulator is an in-memory Channel speaking the reader's wire protocol
// against a case-insensitive settings table. It answers get/set against
// that table and serves a canned two-tag inventory whenever antenna 0
// is part of the current antenna sequence.
type Emulator struct {
	mu       sync.Mutex
	settings map[string]string
	out      bytes.Buffer

	login            string
	password         string
	awaitingLogin    bool
	awaitingPassword bool
	loginSeen        string
}

// NewEmulator returns an emulator with factory defaults and no login
// challenge.
func NewEmulator() *Emulator {
	return &Emulator{
		settings: map[string]string{
			"time":                  "",
			"persisttime":           "5",
			"acquiremode":           "Inventory",
			"taglistantennacombine": "off",
			"mask":                  "All Tags",
			"antennasequence":       "0",
			"readerversion":         EmulatorVersion,
			"taglistformat":         "Text",
		},
	}
}

// NewEmulatorWithAuth returns an emulator that demands the given login
// handshake before accepting commands.
func NewEmulatorWithAuth(login, password string) *Emulator {
	e := NewEmulator()
	e.login = login
	e.password = password
	e.awaitingLogin = true
	return e
}

// Setting reports the current raw value of a setting, for assertions
// against reader state.
func (e *Emulator) Setting(name string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	value, ok := e.settings[strings.ToLower(name)]
	return value, ok
}

func (e *Emulator) Write(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(p) > 0 && p[0] == alien.CommandPrefix {
		text := strings.TrimSuffix(string(p[1:]), alien.CRLF)
		e.handleCommand(text)
		return len(p), nil
	}

	line := strings.TrimRight(string(p), "\r\n")
	switch {
	case e.awaitingLogin:
		e.loginSeen = line
		e.awaitingLogin = false
		e.awaitingPassword = true
		e.out.WriteString(alien.PasswordPrompt)
	case e.awaitingPassword:
		e.awaitingPassword = false
		if e.loginSeen == e.login && line == e.password {
			e.out.WriteString("\r\n" + alien.Banner + ">")
		} else {
			e.awaitingLogin = true
			e.out.WriteString("\r\nInvalid credentials\r\nLogin>")
		}
	default:
		e.respond(line, "Error: Unknown command")
	}
	return len(p), nil
}

func (e *Emulator) handleCommand(text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		e.respond(text, "Error: Unknown command")
		return
	}

	switch {
	case strings.EqualFold(fields[0], "Sleep"), strings.EqualFold(fields[0], "Wake"):
		e.respond(text, "Ok!")
	case strings.EqualFold(fields[0], "reboot"):
		e.respond(text, "Rebooting...")
	case strings.EqualFold(fields[0], "get") && len(fields) >= 2 && strings.EqualFold(fields[1], "TagList"):
		e.respond(text, e.tagList())
	case strings.EqualFold(fields[0], "get") && len(fields) >= 2:
		name := fields[1]
		value, ok := e.settings[strings.ToLower(name)]
		if !ok {
			e.respond(text, fmt.Sprintf("Error: Unknown setting %s", name))
			return
		}
		e.respond(text, fmt.Sprintf("%s = %s", name, value))
	case strings.EqualFold(fields[0], "set"):
		rest := strings.TrimSpace(text[len(fields[0]):])
		name, value, ok := strings.Cut(rest, "=")
		if !ok {
			e.respond(text, "Error: Malformed set")
			return
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		e.settings[strings.ToLower(name)] = value
		e.respond(text, fmt.Sprintf("%s = %s", name, value))
	default:
		e.respond(text, "Error: Unknown command")
	}
}

func (e *Emulator) tagList() string {
	for _, token := range strings.Split(e.settings["antennasequence"], ",") {
		token = strings.TrimSuffix(strings.TrimSpace(token), "*")
		if token == "0" {
			return emulatorTagList
		}
	}
	return alien.NoTagsMarker
}

// respond queues the echoed command plus body, terminated like the
// real reader.
func (e *Emulator) respond(command, body string) {
	e.out.WriteString(command + "\r\n" + body + "\r\n")
	e.out.WriteByte(alien.Terminator)
}

func (e *Emulator) ReadUntil(delim byte) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := e.out.ReadString(delim)
	if err != nil {
		// Nothing pending: a real channel would block until the
		// deadline, the emulator fails fast.
		e.out.WriteString(data)
		return "", fmt.Errorf("%w: emulator has no response ending in %#x", alien.ErrTimeout, delim)
	}
	return data, nil
}

func (e *Emulator) SetTimeout(time.Duration) {}

func (e *Emulator) Close() error { return nil }

// Package sdk is the protocol engine for Alien-class RFID readers: it
// frames commands, parses responses, converts between semantic setting
// values and their raw wire strings, and scopes temporary setting
// overrides to single calls.
package sdk

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"alien_rfid_go/internal/protocol/alien"
	"alien_rfid_go/internal/transport"
)

// DefaultTimeout applies when Config.Timeout is unset.
const DefaultTimeout = 3 * time.Second

// Config controls client construction.
type Config struct {
	// Timeout applies uniformly to every write and delimiter read.
	Timeout time.Duration

	// Login and Password drive the handshake performed before any
	// command when Login is non-empty.
	Login    string
	Password string

	// Settings are applied through Set after the handshake. Unknown
	// setting names are tolerated here, and only here, because these
	// values may target an unrelated collaborator layered on top.
	Settings map[string]any

	// Debug raises wire-level logging of every command and response.
	Debug bool

	// Logger receives wire traffic when Debug is on. Nil disables
	// logging entirely.
	Logger *zerolog.Logger
}

// Client drives one reader over an exclusively owned channel. It is
// strictly synchronous and not safe for concurrent use; callers who
// share one physical reader must serialize on one Client.
type Client struct {
	ch      transport.Channel
	timeout time.Duration
	debug   bool
	log     zerolog.Logger

	overlays []map[string]any
}

// NewClient performs the login handshake when credentials are present,
// applies cfg.Settings, and forces the tag-list response format to
// text mode. A reader that rejects the format forcing is unusable and
// fails construction.
func NewClient(ch transport.Channel, cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ch.SetTimeout(timeout)

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	c := &Client{
		ch:      ch,
		timeout: timeout,
		debug:   cfg.Debug,
		log:     logger,
	}

	if cfg.Login != "" {
		if err := c.login(cfg.Login, cfg.Password); err != nil {
			return nil, err
		}
	}

	if len(cfg.Settings) > 0 {
		failures, err := c.Set(cfg.Settings)
		if err != nil {
			return nil, err
		}
		for _, failure := range failures {
			if strings.Contains(failure, "unknown setting") {
				continue
			}
			return nil, fmt.Errorf("%w: %s", alien.ErrProtocol, failure)
		}
	}

	failures, err := c.Set(map[string]any{"TagListFormat": "Text"})
	if err != nil {
		return nil, err
	}
	if len(failures) > 0 {
		return nil, fmt.Errorf("%w: force text tag-list format: %s", alien.ErrProtocol, failures[0])
	}
	return c, nil
}

// Close tears the channel down. The client may be closed at any time;
// no partially written command survives a Close.
func (c *Client) Close() error {
	return c.ch.Close()
}

func (c *Client) login(login, password string) error {
	if _, err := c.ch.Write([]byte(login + alien.CRLF)); err != nil {
		return err
	}
	prompt, err := c.ch.ReadUntil('>')
	if err != nil {
		return err
	}
	if !strings.HasSuffix(prompt, alien.PasswordPrompt) {
		return fmt.Errorf("%w: expected password prompt, got %q", alien.ErrAuth, prompt)
	}

	if _, err := c.ch.Write([]byte(password + alien.CRLF)); err != nil {
		return err
	}
	prompt, err = c.ch.ReadUntil('>')
	if err != nil {
		return err
	}
	banner := strings.TrimSpace(strings.TrimSuffix(prompt, ">"))
	if !strings.HasSuffix(banner, alien.Banner) {
		return fmt.Errorf("%w: unexpected banner %q", alien.ErrAuth, banner)
	}
	return nil
}

// command frames and sends one command, reads the delimited response,
// and returns its body with the echoed command line stripped.
func (c *Client) command(text string) (string, error) {
	if c.debug {
		c.log.Debug().Str("command", text).Msg("send")
	}
	if _, err := c.ch.Write(alien.Command(text)); err != nil {
		return "", err
	}
	raw, err := c.ch.ReadUntil(alien.Terminator)
	if err != nil {
		return "", err
	}

	body := strings.TrimSuffix(raw, string(alien.Terminator))
	body = alien.TrimEcho(text, body)
	body = strings.TrimSpace(body)
	if c.debug {
		c.log.Debug().Str("command", text).Str("response", body).Msg("recv")
	}
	return body, nil
}

// Set applies props, keyed by case-insensitive setting name. Problems
// with individual keys (unknown name, read-only target, unencodable
// value, rejected write) are collected into the returned list so the
// caller can decide whether partial application is acceptable; an empty
// list means every key took effect. Transport failures abort the call.
func (c *Client) Set(props map[string]any) ([]string, error) {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var failures []string
	for _, name := range names {
		id, ok := alien.Resolve(name)
		if !ok {
			failures = append(failures, fmt.Sprintf("unknown setting %q", name))
			continue
		}
		if id.IsLocal() {
			if err := c.setLocal(id, props[name]); err != nil {
				failures = append(failures, err.Error())
			}
			continue
		}
		if id.IsReadOnly() {
			failures = append(failures, fmt.Sprintf("setting %s is read-only", id.Name()))
			continue
		}

		raw, err := id.Encode(props[name])
		if err != nil {
			failures = append(failures, err.Error())
			continue
		}
		response, err := c.command(fmt.Sprintf("set %s = %s", id.Name(), raw))
		if err != nil {
			return failures, err
		}
		if !hasFoldPrefix(response, id.Name()) {
			failures = append(failures, fmt.Sprintf("set %s failed: %s", id.Name(), response))
		}
	}
	return failures, nil
}

// Get returns the decoded value of one setting. Unknown names fail
// with ErrUnknownSetting.
func (c *Client) Get(name string) (any, error) {
	id, ok := alien.Resolve(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", alien.ErrUnknownSetting, name)
	}
	if id.IsLocal() {
		return c.getLocal(id), nil
	}

	response, err := c.command("get " + id.WireName())
	if err != nil {
		return nil, err
	}
	value, err := id.Decode(extractValue(id.WireName(), response))
	if err != nil {
		return nil, err
	}
	if info, ok := value.(alien.VersionInfo); ok {
		return fromInternalVersion(info), nil
	}
	return value, nil
}

// GetAll returns the decoded values of the named settings. The first
// unknown name aborts the whole batch with ErrUnknownSetting; this is
// a deliberate, documented contract, not an accident of iteration.
func (c *Client) GetAll(names ...string) (map[string]any, error) {
	values := make(map[string]any, len(names))
	for _, name := range names {
		value, err := c.Get(name)
		if err != nil {
			return nil, err
		}
		values[name] = value
	}
	return values, nil
}

// Version fetches and decodes the reader's version report.
func (c *Client) Version() (VersionInfo, error) {
	value, err := c.Get("ReaderVersion")
	if err != nil {
		return VersionInfo{}, err
	}
	info, ok := value.(VersionInfo)
	if !ok {
		return VersionInfo{}, fmt.Errorf("%w: unexpected version payload %T", alien.ErrProtocol, value)
	}
	return info, nil
}

func (c *Client) setLocal(id alien.Setting, value any) error {
	switch id {
	case alien.SettingDebug:
		enabled, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("set Debug: %v", err)
		}
		c.debug = enabled
	case alien.SettingTimeout:
		timeout, err := parseTimeout(value)
		if err != nil {
			return fmt.Errorf("set Timeout: %v", err)
		}
		c.timeout = timeout
		c.ch.SetTimeout(timeout)
	}
	return nil
}

func (c *Client) getLocal(id alien.Setting) any {
	switch id {
	case alien.SettingDebug:
		return c.debug
	case alien.SettingTimeout:
		return c.timeout
	}
	return nil
}

// extractValue strips the "<Name> =" echo from a get response. Bodies
// that do not repeat the name are taken verbatim.
func extractValue(name, body string) string {
	if !hasFoldPrefix(body, name) {
		return body
	}
	rest := strings.TrimSpace(body[len(name):])
	rest = strings.TrimPrefix(rest, "=")
	return strings.TrimSpace(rest)
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func parseBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "on", "true", "1":
			return true, nil
		case "off", "false", "0":
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: not a boolean: %v", alien.ErrValidation, value)
}

func parseTimeout(value any) (time.Duration, error) {
	switch v := value.(type) {
	case time.Duration:
		if v > 0 {
			return v, nil
		}
	case int:
		if v > 0 {
			return time.Duration(v) * time.Second, nil
		}
	}
	return 0, fmt.Errorf("%w: not a positive timeout: %v", alien.ErrValidation, value)
}

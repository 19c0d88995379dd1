package sdk

import (
	"fmt"
	"strconv"
	"strings"

	"alien_rfid_go/internal/protocol/alien"
)

// ReadTags fetches the reader's current tag list with the settings as
// they stand.
func (c *Client) ReadTags() ([]Tag, error) {
	return c.ReadTagsWith(nil, 0)
}

// ReadTagsWith fetches the tag list under temporary setting overrides.
// The overrides are pushed before the read and popped on every exit
// path, so reader state never leaks past the call. A positive numReads
// asks the reader for that many acquisition rounds. Tags are returned
// in response order.
func (c *Client) ReadTagsWith(overrides map[string]any, numReads int) ([]Tag, error) {
	var tags []Tag
	err := c.withOverrides(overrides, func() error {
		command := "get TagList"
		if numReads > 0 {
			command += " " + strconv.Itoa(numReads)
		}
		body, err := c.command(command)
		if err != nil {
			return err
		}
		for _, tag := range alien.ParseTagList(body) {
			tags = append(tags, fromInternalTag(tag))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// SleepTags puts the tag population to sleep, optionally under
// temporary overrides (typically a Mask). The reader's acknowledgement
// carries no structure, so only transport failures are reported.
func (c *Client) SleepTags(overrides map[string]any) error {
	return c.withOverrides(overrides, func() error {
		_, err := c.command("Sleep")
		return err
	})
}

// WakeTags wakes the tag population, optionally under temporary
// overrides.
func (c *Client) WakeTags(overrides map[string]any) error {
	return c.withOverrides(overrides, func() error {
		_, err := c.command("Wake")
		return err
	})
}

// Reboot restarts the reader without waiting for a response. The
// client is stale afterwards and must be discarded along with its
// channel.
func (c *Client) Reboot() error {
	_, err := c.ch.Write(alien.Command("reboot"))
	return err
}

// PushOverrides snapshots the current value of every key in props and
// then applies props. The snapshot fails the call, untouched, when any
// current value cannot be retrieved. A failed apply restores the
// snapshot best-effort before rolling it off the stack, so keys that
// already took effect do not outlive the error.
func (c *Client) PushOverrides(props map[string]any) error {
	snapshot := make(map[string]any, len(props))
	for name := range props {
		current, err := c.Get(name)
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", name, err)
		}
		snapshot[name] = current
	}
	c.overlays = append(c.overlays, snapshot)

	failures, err := c.Set(props)
	if err == nil && len(failures) > 0 {
		err = fmt.Errorf("%w: apply overrides: %s", alien.ErrProtocol, strings.Join(failures, "; "))
	}
	if err != nil {
		c.overlays = c.overlays[:len(c.overlays)-1]
		_, _ = c.Set(snapshot)
		return err
	}
	return nil
}

// PopOverrides restores the snapshot taken by the matching
// PushOverrides. Popping without a matching push is a programming
// error and panics.
func (c *Client) PopOverrides() error {
	if len(c.overlays) == 0 {
		panic("sdk: PopOverrides without matching PushOverrides")
	}
	snapshot := c.overlays[len(c.overlays)-1]
	c.overlays = c.overlays[:len(c.overlays)-1]

	failures, err := c.Set(snapshot)
	if err != nil {
		return err
	}
	if len(failures) > 0 {
		return fmt.Errorf("%w: restore overrides: %s", alien.ErrProtocol, strings.Join(failures, "; "))
	}
	return nil
}

// withOverrides runs fn inside a push/pop pair, guaranteeing the pop on
// every exit path.
func (c *Client) withOverrides(overrides map[string]any, fn func() error) (err error) {
	if len(overrides) == 0 {
		return fn()
	}
	if err := c.PushOverrides(overrides); err != nil {
		return err
	}
	defer func() {
		if popErr := c.PopOverrides(); popErr != nil && err == nil {
			err = popErr
		}
	}()
	return fn()
}

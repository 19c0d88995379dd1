package sdk

import (
	"sort"

	"alien_rfid_go/internal/protocol/alien"
)

// Tag is one observed tag. ID is normalized uppercase hex; identity and
// ordering are defined by ID alone. Antenna is -1 when the reader did
// not report one. Attrs carries every auxiliary field of the tag line,
// lowercase-keyed (crc, disc, count, ant...).
type Tag struct {
	ID      string
	Antenna int
	Attrs   map[string]string
}

// Equal reports tag identity, which is the ID only.
func (t Tag) Equal(other Tag) bool {
	return t.ID == other.ID
}

// Less orders tags lexicographically by ID.
func (t Tag) Less(other Tag) bool {
	return t.ID < other.ID
}

// SortTags sorts tags in place by ID. Read results arrive in response
// order; sorting is always an explicit caller choice.
func SortTags(tags []Tag) {
	sort.Slice(tags, func(i, j int) bool { return tags[i].Less(tags[j]) })
}

// VersionInfo is the decoded reader version report. String always
// holds the full raw text; the other fields are filled when the
// corresponding key is present.
type VersionInfo struct {
	Software    string
	CountryCode string
	ReaderType  string
	Firmware    string
	String      string
}

func fromInternalTag(tag alien.Tag) Tag {
	return Tag{
		ID:      tag.ID,
		Antenna: tag.Antenna,
		Attrs:   tag.Attrs,
	}
}

func fromInternalVersion(info alien.VersionInfo) VersionInfo {
	return VersionInfo{
		Software:    info.Software,
		CountryCode: info.CountryCode,
		ReaderType:  info.ReaderType,
		Firmware:    info.Firmware,
		String:      info.String,
	}
}

package alien

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Setting identifies one recognized reader property. The set is closed:
// lookups resolve a name to a Setting once, and all further dispatch is
// a table access.
type Setting int

const (
	SettingAcquireMode Setting = iota
	SettingPersistTime
	SettingAcqCycles
	SettingAcqEnterWakeCount
	SettingAcqCount
	SettingAcqSleepCount
	SettingAcqExitWakeCount
	SettingTagListAntennaCombine
	SettingMask
	SettingTime
	SettingAntennaSequence
	SettingReaderVersion
	SettingReaderVersionString
	SettingTagListFormat
	SettingDebug
	SettingTimeout

	settingCount
)

type settingSpec struct {
	name     string // canonical wire spelling
	wire     string // wire command name when it differs from name
	local    bool   // client state only, no protocol round trip
	readOnly bool
	encode   func(value any) (string, error)
	decode   func(raw string) (any, error)
}

var settingTable = [settingCount]settingSpec{
	SettingAcquireMode:           {name: "AcquireMode", encode: encodeText, decode: decodeText},
	SettingPersistTime:           {name: "PersistTime", encode: encodeText, decode: decodeText},
	SettingAcqCycles:             {name: "AcqCycles", encode: encodeText, decode: decodeText},
	SettingAcqEnterWakeCount:     {name: "AcqEnterWakeCount", encode: encodeText, decode: decodeText},
	SettingAcqCount:              {name: "AcqCount", encode: encodeText, decode: decodeText},
	SettingAcqSleepCount:         {name: "AcqSleepCount", encode: encodeText, decode: decodeText},
	SettingAcqExitWakeCount:      {name: "AcqExitWakeCount", encode: encodeText, decode: decodeText},
	SettingTagListAntennaCombine: {name: "TagListAntennaCombine", encode: encodeText, decode: decodeText},
	SettingMask:                  {name: "Mask", encode: EncodeMask, decode: DecodeMask},
	SettingTime:                  {name: "Time", encode: encodeTime, decode: decodeTime},
	SettingAntennaSequence:       {name: "AntennaSequence", encode: encodeAntennaSequence, decode: decodeAntennaSequence},
	SettingReaderVersion:         {name: "ReaderVersion", readOnly: true, decode: decodeVersion},
	SettingReaderVersionString:   {name: "ReaderVersionString", wire: "ReaderVersion", readOnly: true, decode: decodeText},
	SettingTagListFormat:         {name: "TagListFormat", encode: encodeText, decode: decodeText},
	SettingDebug:                 {name: "Debug", local: true},
	SettingTimeout:               {name: "Timeout", local: true},
}

var settingsByName = func() map[string]Setting {
	byName := make(map[string]Setting, settingCount)
	for id := Setting(0); id < settingCount; id++ {
		byName[strings.ToLower(settingTable[id].name)] = id
	}
	return byName
}()

// Resolve maps a case-insensitive setting name to its identifier.
func Resolve(name string) (Setting, bool) {
	id, ok := settingsByName[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Name is the canonical wire spelling of the setting.
func (s Setting) Name() string {
	return settingTable[s].name
}

// WireName is the name used in get/set commands. It differs from Name
// only for aliases like ReaderVersionString.
func (s Setting) WireName() string {
	if w := settingTable[s].wire; w != "" {
		return w
	}
	return settingTable[s].name
}

// IsLocal reports whether the setting lives in client state only.
func (s Setting) IsLocal() bool {
	return settingTable[s].local
}

// IsReadOnly reports whether the reader rejects writes to the setting.
func (s Setting) IsReadOnly() bool {
	return settingTable[s].readOnly
}

// Encode converts a semantic value into its raw protocol string.
func (s Setting) Encode(value any) (string, error) {
	spec := settingTable[s]
	if spec.encode == nil {
		return "", fmt.Errorf("%w: %s is not writable", ErrValidation, spec.name)
	}
	return spec.encode(value)
}

// Decode converts the reader's raw reported value into its semantic
// form. Settings without a dedicated codec pass the raw string through.
func (s Setting) Decode(raw string) (any, error) {
	spec := settingTable[s]
	if spec.decode == nil {
		return raw, nil
	}
	return spec.decode(raw)
}

func encodeText(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		if v {
			return "ON", nil
		}
		return "OFF", nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return fmt.Sprint(value), nil
	}
}

func decodeText(raw string) (any, error) {
	return raw, nil
}

// EncodeMask encodes a "<hex>[/<len>[/<start>]]" mask expression into
// the reader's "<len>, <start>, <byte pairs>" form. Odd-length hex is
// right-padded with a zero; len defaults to four bits per digit and
// start to zero. The empty expression encodes the all-tags mask.
func EncodeMask(value any) (string, error) {
	expr, err := encodeText(value)
	if err != nil {
		return "", err
	}
	parts := strings.Split(strings.TrimSpace(expr), "/")
	if len(parts) > 3 {
		return "", fmt.Errorf("%w: mask %q has too many fields", ErrValidation, expr)
	}

	digits := parts[0]
	for _, r := range digits {
		if !isHexDigit(r) {
			return "", fmt.Errorf("%w: mask %q is not hex", ErrValidation, expr)
		}
	}

	bitLen := 4 * len(digits)
	if len(parts) >= 2 {
		bitLen, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || bitLen < 0 {
			return "", fmt.Errorf("%w: mask %q has a bad length", ErrValidation, expr)
		}
	}
	start := 0
	if len(parts) == 3 {
		start, err = strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil || start < 0 {
			return "", fmt.Errorf("%w: mask %q has a bad start", ErrValidation, expr)
		}
	}

	if len(digits)%2 != 0 {
		digits += "0"
	}
	if digits == "" {
		return fmt.Sprintf("%d, %d", bitLen, start), nil
	}
	pairs := make([]string, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		pairs = append(pairs, digits[i:i+2])
	}
	return fmt.Sprintf("%d, %d, %s", bitLen, start, strings.Join(pairs, " ")), nil
}

// DecodeMask turns the reader's "<len>, <start>, <byte pairs>" report
// back into "<hex>/<len>[/<start>]". The all-tags sentinel and a zero
// length both decode to the empty string.
func DecodeMask(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "All Tags") {
		return "", nil
	}

	parts := strings.SplitN(raw, ",", 3)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: malformed mask report %q", ErrProtocol, raw)
	}
	bitLen, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed mask length in %q", ErrProtocol, raw)
	}
	if bitLen == 0 {
		return "", nil
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed mask start in %q", ErrProtocol, raw)
	}

	hex := ""
	if len(parts) == 3 {
		hex = strings.ReplaceAll(strings.TrimSpace(parts[2]), " ", "")
	}
	decoded := fmt.Sprintf("%s/%d", hex, bitLen)
	if start != 0 {
		decoded = fmt.Sprintf("%s/%d", decoded, start)
	}
	return decoded, nil
}

const timeLayout = "2006/01/02 15:04:05"

// Readers report timestamps only up to 2045; anything later is a range
// overflow and decodes to the 32-bit sentinel.
const timeSentinelYear = 2045

func encodeTime(value any) (string, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(timeLayout), nil
	case string:
		return v, nil
	case int:
		return time.Unix(int64(v), 0).UTC().Format(timeLayout), nil
	case int64:
		return time.Unix(v, 0).UTC().Format(timeLayout), nil
	default:
		return "", fmt.Errorf("%w: cannot encode %T as a timestamp", ErrValidation, value)
	}
}

func decodeTime(raw string) (any, error) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed timestamp %q", ErrProtocol, raw)
	}
	if t.Year() > timeSentinelYear {
		return int64(math.MaxUint32), nil
	}
	return t.Unix(), nil
}

func encodeAntennaSequence(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []string:
		return strings.Join(v, ", "), nil
	case []int:
		tokens := make([]string, len(v))
		for i, n := range v {
			tokens[i] = strconv.Itoa(n)
		}
		return strings.Join(tokens, ", "), nil
	case int:
		return strconv.Itoa(v), nil
	default:
		return "", fmt.Errorf("%w: cannot encode %T as an antenna sequence", ErrValidation, value)
	}
}

func decodeAntennaSequence(raw string) (any, error) {
	var sequence []string
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSuffix(strings.TrimSpace(token), "*")
		if token == "" {
			continue
		}
		sequence = append(sequence, token)
	}
	return sequence, nil
}

func decodeVersion(raw string) (any, error) {
	return ParseVersion(raw), nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

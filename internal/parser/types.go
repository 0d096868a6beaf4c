package parser

// Status classifies the outcome of loading a file or a single line.
type Status int

const (
	StatusOK Status = iota
	StatusFileNameInvalid
	StatusFileDoesNotExist
	StatusFileEmpty
	StatusFileUnreadable
	StatusExtraBracket
	StatusTextBeforeBracket
	StatusTextBetweenBracket
	StatusTextAfterBracket
	StatusInvalidFormat
	StatusInvalidID
	StatusDuplicatedID
	StatusTextTooLong
)

var statusNames = map[Status]string{
	StatusOK:                 "OK",
	StatusFileNameInvalid:    "FileNameInvalid",
	StatusFileDoesNotExist:   "FileDoesNotExist",
	StatusFileEmpty:          "FileEmpty",
	StatusFileUnreadable:     "FileUnreadable",
	StatusExtraBracket:       "ExtraBracket",
	StatusTextBeforeBracket:  "TextBeforeBracket",
	StatusTextBetweenBracket: "TextBetweenBracket",
	StatusTextAfterBracket:   "TextAfterBracket",
	StatusInvalidFormat:      "InvalidFormat",
	StatusInvalidID:          "InvalidId",
	StatusDuplicatedID:       "DuplicatedId",
	StatusTextTooLong:        "TextTooLong",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText renders the status by name in JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// FileLevel reports whether the status short-circuits a whole file.
func (s Status) FileLevel() bool {
	switch s {
	case StatusFileNameInvalid, StatusFileDoesNotExist, StatusFileEmpty, StatusFileUnreadable:
		return true
	}
	return false
}

// Default limits used when Options leaves them unset.
const (
	DefaultMaxTextLen = 1024
	DefaultMaxWordLen = 53
	DefaultEncoding   = "utf-8"
)

// Options configures a Loader.
type Options struct {
	// Relaxed allows ';' and '//' comments outside the outermost braces.
	Relaxed bool
	// AllowDuplicateZero lets id 0 repeat; the later record replaces the earlier one.
	AllowDuplicateZero bool
	// MaxTextLen caps the cumulative text length of one record.
	MaxTextLen int
	// MaxWordLen caps an unbroken run of word characters.
	MaxWordLen int
	// Encoding names the input character set (WHATWG/IANA name).
	Encoding string
}

func (o Options) withDefaults() Options {
	if o.MaxTextLen <= 0 {
		o.MaxTextLen = DefaultMaxTextLen
	}
	if o.MaxWordLen <= 0 {
		o.MaxWordLen = DefaultMaxWordLen
	}
	if o.Encoding == "" {
		o.Encoding = DefaultEncoding
	}
	return o
}

// LoadResult holds the outcome of loading one file.
//
// Status only reflects file-level problems. Line-level problems leave Status
// at StatusOK and show up in Diagnostics; use Failed to test for either.
type LoadResult struct {
	File        string
	Status      Status
	Diagnostics []Diagnostic
	Store       *Store
}

// Failed reports whether the file had any problem at all.
func (r *LoadResult) Failed() bool {
	return r.Status != StatusOK || len(r.Diagnostics) > 0
}

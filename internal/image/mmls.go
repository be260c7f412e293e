package image

import (
	"slices"
	"strconv"
	"strings"
)

const unitsMarker = "Units are in "

// The table tool pads its columns with a fixed number of spaces, so a row
// split on single spaces (empty tokens preserved) always puts each column
// at the same index. The two row shapes are distinguished by the slot
// type token.
type rowKind int

const (
	dataRow rowKind = iota
	metaRow
)

// rowLayout is the column-index contract for one row shape
type rowLayout struct {
	start, end, length, desc int
}

var rowLayouts = map[rowKind]rowLayout{
	dataRow: {start: 5, end: 8, length: 11, desc: 14},
	metaRow: {start: 8, end: 11, length: 14, desc: 17},
}

const typeToken = 2

// ParseTable turns partition-lister output lines into an ordered partition
// list plus the table's block size in bytes. Lines before the header row
// (the first one whose fields contain "Slot") are scanned only for the
// block-size marker; every non-empty line after it is a partition row.
// Row order is preserved as partition index order.
func ParseTable(lines []string) ([]*Partition, int, error) {
	var partitions []*Partition
	blockSize := 0
	headerSeen := false
	fsSeq := 0 // zero-based sequence over filesystem-bearing rows

	for _, raw := range lines {
		if !headerSeen {
			if i := strings.Index(raw, unitsMarker); i >= 0 {
				rest := raw[i+len(unitsMarker):]
				j := strings.Index(rest, "-")
				if j < 0 {
					return nil, 0, &ParseError{Line: raw, Reason: "malformed units line"}
				}
				bs, err := strconv.Atoi(rest[:j])
				if err != nil {
					return nil, 0, &ParseError{Line: raw, Reason: "non-numeric block size"}
				}
				blockSize = bs
			}
			if slices.Contains(strings.Fields(raw), "Slot") {
				headerSeen = true
			}
			continue
		}

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		part, err := parseRow(line, &fsSeq)
		if err != nil {
			return nil, 0, err
		}
		partitions = append(partitions, part)
	}

	if !headerSeen {
		return nil, 0, &ParseError{Reason: "no header row found"}
	}
	if blockSize <= 0 {
		return nil, 0, &ParseError{Reason: "no block size reported"}
	}

	return partitions, blockSize, nil
}

func parseRow(line string, fsSeq *int) (*Partition, error) {
	tokens := strings.Split(line, " ")
	if len(tokens) <= typeToken {
		return nil, &ParseError{Line: line, Reason: "too few columns"}
	}

	kind := dataRow
	if tokens[typeToken] == "Meta" {
		kind = metaRow
	}
	layout := rowLayouts[kind]

	if len(tokens) <= layout.desc {
		return nil, &ParseError{Line: line, Reason: "too few columns"}
	}

	start, err := parseUnits(line, tokens[layout.start])
	if err != nil {
		return nil, err
	}
	end, err := parseUnits(line, tokens[layout.end])
	if err != nil {
		return nil, err
	}
	length, err := parseUnits(line, tokens[layout.length])
	if err != nil {
		return nil, err
	}

	part := &Partition{
		Slot:        tokens[typeToken],
		Start:       start,
		End:         end,
		Length:      length,
		Description: strings.Join(tokens[layout.desc:], " "),
		Carved:      FlagNo,
		Recovered:   FlagNo,
		CarvedFiles: FlagNo,
	}

	// A colon-qualified type token marks a filesystem-bearing partition.
	// Those get a sequence suffix so same-named filesystems stay apart.
	if kind == dataRow && strings.Contains(tokens[typeToken], ":") {
		part.Description += "_fs" + strconv.Itoa(*fsSeq)
		part.IsFilesystem = true
		*fsSeq++
	}

	part.Name = strings.ReplaceAll(part.Description, " ", "_")

	return part, nil
}

func parseUnits(line, token string) (uint64, error) {
	v, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return 0, &ParseError{Line: line, Reason: "non-numeric offset column"}
	}
	return v, nil
}

package influx

import (
	"bytes"
	"sort"
	"strconv"
)

// Nothing is escaped: measurement keys, tag names and values, field names
// and string field values are copied verbatim. Callers sending values
// containing commas, spaces or equal signs will get a line the server
// rejects.

func EncodePoint(p *Point, buf *bytes.Buffer) {
	buf.WriteString(p.Key)

	if len(p.Tags) > 0 {
		encodeTags(p.Tags, buf)
	}

	buf.WriteByte(' ')
	encodeFields(p.Fields, buf)

	if p.Timestamp != nil {
		buf.WriteByte(' ')
		buf.WriteString(strconv.FormatInt(*p.Timestamp, 10))
	}
}

func EncodePoints(ps Points, buf *bytes.Buffer) {
	for i, p := range ps {
		if i > 0 {
			buf.WriteByte('\n')
		}

		EncodePoint(p, buf)
	}
}

func encodeTags(tags Tags, buf *bytes.Buffer) {
	// Sorting tags by key is what the server prefers and it makes the output
	// deterministic.
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		buf.WriteByte(',')
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(tags[key])
	}
}

func encodeFields(fields Fields, buf *bytes.Buffer) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(fields[key].String())
	}
}

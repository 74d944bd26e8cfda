package influx

import (
	"bytes"
	"time"
)

type Point struct {
	Key       string
	Tags      Tags
	Fields    Fields
	Timestamp *int64
}

type Points []*Point

type Tags map[string]string

func NewPoint(key string) *Point {
	return &Point{
		Key:    key,
		Tags:   Tags{},
		Fields: Fields{},
	}
}

func NewPointWithTimestamp(key string, tags Tags, fields Fields, timestamp int64) *Point {
	if tags == nil {
		tags = Tags{}
	}

	if fields == nil {
		fields = Fields{}
	}

	return &Point{
		Key:       key,
		Tags:      tags,
		Fields:    fields,
		Timestamp: &timestamp,
	}
}

// WithTimestamp sets the timestamp of the point. The value is written as is,
// it must use the precision expected by the server.
func (p *Point) WithTimestamp(timestamp int64) *Point {
	p.Timestamp = &timestamp
	return p
}

func (p *Point) WithTime(t time.Time) *Point {
	return p.WithTimestamp(t.UnixNano())
}

func (p *Point) WithTag(name, value string) *Point {
	if p.Tags == nil {
		p.Tags = Tags{}
	}

	p.Tags[name] = value
	return p
}

func (p *Point) WithField(name string, value Field) *Point {
	if p.Fields == nil {
		p.Fields = Fields{}
	}

	p.Fields[name] = value
	return p
}

func (p *Point) Serialize() string {
	var buf bytes.Buffer
	EncodePoint(p, &buf)
	return buf.String()
}

// BatchPoints is a set of points written to the same database with a single
// request.
type BatchPoints struct {
	Database string
	Points   Points
}

func NewBatchPoints(database string) *BatchPoints {
	return &BatchPoints{
		Database: database,
	}
}

func OneBatchPoints(database string, p *Point) *BatchPoints {
	return NewBatchPoints(database).AddPoint(p)
}

func (bp *BatchPoints) AddPoint(p *Point) *BatchPoints {
	bp.Points = append(bp.Points, p)
	return bp
}

func (bp *BatchPoints) AddPoints(ps ...*Point) *BatchPoints {
	bp.Points = append(bp.Points, ps...)
	return bp
}

func (bp *BatchPoints) Serialize() string {
	var buf bytes.Buffer
	EncodePoints(bp.Points, &buf)
	return buf.String()
}

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/galdor/go-influx/pkg/cfg"
	"github.com/galdor/go-influx/pkg/influx"
	"github.com/galdor/go-log"
	"github.com/galdor/go-program"
)

func main() {
	p := program.NewProgram("influx-client",
		"send requests to the http api of an influx database")

	p.AddOption("c", "cfg-file", "path", "",
		"the path of the configuration file")
	p.AddOption("u", "uri", "uri", "",
		"the uri of the server")
	p.AddOption("", "username", "name", "",
		"the username used for basic authentication")
	p.AddOption("", "password", "password", "",
		"the password used for basic authentication")
	p.AddFlag("", "log-requests", "log all http requests")

	p.AddCommand("ping", "check that the server is available", cmdPing)

	c := p.AddCommand("write", "write a point", cmdWrite)
	c.AddOption("t", "tags", "tags", "",
		"a comma-separated list of name=value tags")
	c.AddOption("", "timestamp", "timestamp", "",
		"the timestamp of the point")
	c.AddArgument("database", "the name of the database")
	c.AddArgument("measurement", "the measurement key of the point")
	c.AddArgument("fields", "a comma-separated list of name=value fields")

	c = p.AddCommand("query", "execute a query", cmdQuery)
	c.AddArgument("database", "the name of the database")
	c.AddArgument("query", "the query string")

	c = p.AddCommand("probe", "write go runtime metrics", cmdProbe)
	c.AddArgument("database", "the name of the database")

	p.ParseCommandLine()
	p.Run()
}

func newClient(p *program.Program) *influx.HTTPClient {
	var clientCfg influx.ClientCfg

	if p.IsOptionSet("cfg-file") {
		cfgPath := p.OptionValue("cfg-file")

		if err := cfg.Load(cfgPath, nil, &clientCfg); err != nil {
			p.Fatal("cannot load configuration: %v", err)
		}
	}

	if p.IsOptionSet("uri") {
		clientCfg.URI = p.OptionValue("uri")
	}

	if p.IsOptionSet("username") {
		clientCfg.Username = p.OptionValue("username")
	}

	if p.IsOptionSet("password") {
		clientCfg.Password = p.OptionValue("password")
	}

	if p.IsOptionSet("log-requests") {
		clientCfg.LogRequests = true
	}

	clientCfg.Log = log.DefaultLogger("influx")

	client, err := influx.NewHTTPClient(clientCfg)
	if err != nil {
		p.Fatal("cannot create client: %v", err)
	}

	return client
}

func cmdPing(p *program.Program) {
	client := newClient(p)
	defer client.Close()

	if err := client.SendPing(context.Background()); err != nil {
		p.Fatal("cannot ping server: %v", err)
	}

	p.Info("server is available")
}

func cmdWrite(p *program.Program) {
	database := p.ArgumentValue("database")

	point, err := buildPoint(p.ArgumentValue("measurement"),
		p.OptionValue("tags"), p.ArgumentValue("fields"),
		p.OptionValue("timestamp"))
	if err != nil {
		p.Fatal("invalid point: %v", err)
	}

	client := newClient(p)
	defer client.Close()

	bp := influx.OneBatchPoints(database, point)

	if err := client.SendBatch(context.Background(), bp); err != nil {
		p.Fatal("cannot write point: %v", err)
	}
}

func cmdQuery(p *program.Program) {
	client := newClient(p)
	defer client.Close()

	body, err := client.SendQuery(context.Background(),
		p.ArgumentValue("query"), p.ArgumentValue("database"))
	if err != nil {
		p.Fatal("cannot execute query: %v", err)
	}

	fmt.Fprintln(os.Stdout, body)
}

func cmdProbe(p *program.Program) {
	client := newClient(p)
	defer client.Close()

	bp := influx.NewBatchPoints(p.ArgumentValue("database"))
	bp.AddPoints(influx.GoRuntimePoints(time.Now())...)

	if err := client.SendBatch(context.Background(), bp); err != nil {
		p.Fatal("cannot write points: %v", err)
	}

	p.Info("%d points written", len(bp.Points))
}

func buildPoint(measurement, tagsString, fieldsString, timestampString string) (*influx.Point, error) {
	if measurement == "" {
		return nil, fmt.Errorf("empty measurement")
	}

	point := influx.NewPoint(measurement)

	tags, err := parsePairs(tagsString)
	if err != nil {
		return nil, fmt.Errorf("invalid tags: %w", err)
	}

	for name, value := range tags {
		point.WithTag(name, value)
	}

	fields, err := parsePairs(fieldsString)
	if err != nil {
		return nil, fmt.Errorf("invalid fields: %w", err)
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("no field specified")
	}

	for name, value := range fields {
		point.WithField(name, parseFieldValue(value))
	}

	if timestampString != "" {
		timestamp, err := strconv.ParseInt(timestampString, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q", timestampString)
		}

		point.WithTimestamp(timestamp)
	}

	return point, nil
}

func parsePairs(s string) (map[string]string, error) {
	pairs := make(map[string]string)

	if s == "" {
		return pairs, nil
	}

	for _, part := range strings.Split(s, ",") {
		name, value, found := strings.Cut(part, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid pair %q", part)
		}

		pairs[name] = value
	}

	return pairs, nil
}

// parseFieldValue infers the type of a field value using line protocol
// conventions: "t" and "f" (or "true" and "false") are booleans, integers
// are suffixed with "i", anything else which looks like a number is a float.
func parseFieldValue(s string) influx.Field {
	switch s {
	case "t", "true":
		return influx.BooleanField(true)
	case "f", "false":
		return influx.BooleanField(false)
	}

	if strings.HasSuffix(s, "i") {
		if i, err := strconv.ParseInt(s[:len(s)-1], 10, 64); err == nil {
			return influx.IntegerField(i)
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return influx.FloatField(f)
	}

	return influx.StringField(s)
}

package geocaching

import (
	"context"
	"iter"
	"log/slog"
	"net/url"
	"strconv"

	"gocaching/lib/textutil"

	"github.com/tidwall/gjson"
)

// the source refuses to serve more than 100 entries per page
const logbookPageMax = 100

func (c *Cache) logbookPage(ctx context.Context, page, perPage int) ([]gjson.Result, error) {
	// resolves the token lazily, which may cost one full load
	token, err := c.LogbookToken(ctx)
	if err != nil {
		return nil, err
	}

	res, err := c.session.JSON(ctx, "seek/geocache.logbook", url.Values{
		"tkn": {token},
		// the source indexes pages from 1
		"idx":     {strconv.Itoa(page + 1)},
		"num":     {strconv.Itoa(perPage)},
		"decrypt": {"true"},
	})
	if err != nil {
		return nil, LoadError{Msg: "failed to fetch a logbook page", Err: err}
	}

	if res.Get("status").String() != "success" {
		msg := res.Get("msg").String()
		if msg == "" {
			msg = "unknown error"
		}
		return nil, LoadError{Msg: "logbook cannot be loaded: " + msg}
	}
	return res.Get("data").Array(), nil
}

func logFromRecord(record gjson.Result) (Log, error) {
	logType, err := LogTypeFromLabel(record.Get("LogType").String())
	if err != nil {
		return Log{}, err
	}
	visited, err := textutil.ParseDate(record.Get("Visited").String())
	if err != nil {
		return Log{}, invalidf("log visited date", "%s", err)
	}
	return Log{
		Type:    logType,
		Text:    record.Get("LogText").String(),
		Visited: visited,
		Author:  record.Get("UserName").String(),
	}, nil
}

// Logbook returns a lazy, one-shot sequence of log entries, bounded by
// limit (limit <= 0 means unbounded). Pages are fetched sequentially
// as the sequence is consumed; an empty page ends it. The sequence
// never touches the entity's accumulated logbook, see LoadLogbook.
func (c *Cache) Logbook(ctx context.Context, limit int) iter.Seq2[Log, error] {
	return func(yield func(Log, error) bool) {
		perPage := logbookPageMax
		if limit > 0 && limit < perPage {
			perPage = limit
		}

		remaining := limit
		for page := 0; ; page++ {
			entries, err := c.logbookPage(ctx, page, perPage)
			if err != nil {
				yield(Log{}, err)
				return
			}
			if len(entries) == 0 {
				// no more data
				return
			}

			for _, record := range entries {
				if limit > 0 && remaining <= 0 {
					return
				}
				remaining--

				l, err := logFromRecord(record)
				if !yield(l, err) || err != nil {
					return
				}
			}
		}
	}
}

// LoadLogbook is Logbook with the accumulation side effect: the
// entity's logbook is reset up front and every yielded entry is
// appended to it, so a partially consumed sequence leaves a matching
// partial accumulation behind.
func (c *Cache) LoadLogbook(ctx context.Context, limit int) iter.Seq2[Log, error] {
	slog.InfoContext(ctx, "loading logbook", "cache", c.describe())
	c.logbook = nil

	inner := c.Logbook(ctx, limit)
	return func(yield func(Log, error) bool) {
		inner(func(l Log, err error) bool {
			if err == nil {
				c.logbook = append(c.logbook, l)
			}
			return yield(l, err)
		})
	}
}

package geocaching

import (
	"context"
	"strings"

	"gocaching/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// logPage holds what the submission form needs: the log types the
// source currently accepts for this record, the static fields that
// must be posted back, and the expected date format.
type logPage struct {
	url           string
	acceptedTypes map[string]string
	hiddenInputs  map[string]string
	dateFormat    string
}

func (c *Cache) loadLogPage(ctx context.Context) (logPage, error) {
	pageUrl, err := c.LogPageURL(ctx)
	if err != nil {
		return logPage{}, err
	}
	doc, err := c.session.Document(ctx, pageUrl, nil)
	if err != nil {
		return logPage{}, LoadError{Msg: "failed to fetch the log page", Err: err}
	}

	acceptedTypes := map[string]string{}
	doc.Find("option").Each(func(_ int, option *goquery.Selection) {
		value := option.AttrOr("value", "")
		if value == "-1" {
			// the "- select type of log -" placeholder
			return
		}
		acceptedTypes[strings.ToLower(strings.TrimSpace(option.Text()))] = value
	})

	hiddenInputs := map[string]string{}
	doc.Find("input[type=hidden], input[type=submit]").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		hiddenInputs[name] = input.AttrOr("value", "")
	})

	dateFormat := strings.Trim(
		doc.Find("#ctl00_ContentBody_LogBookPanel1_uxDateFormatHint").Text(),
		"() \t\n",
	)

	return logPage{
		url:           pageUrl,
		acceptedTypes: acceptedTypes,
		hiddenInputs:  hiddenInputs,
		dateFormat:    dateFormat,
	}, nil
}

// PostLog submits a log entry for the cache. The log page is fetched
// first to discover the accepted types, the static form fields and the
// expected date format.
func (c *Cache) PostLog(ctx context.Context, l Log) error {
	ctx, span := tracer.Start(ctx, "cache:PostLog")
	defer span.End()

	if l.Text == "" {
		return ValidationError{Field: "log text", Reason: "must not be empty"}
	}

	page, err := c.loadLogPage(ctx)
	if err != nil {
		return err
	}

	typeValue, ok := page.acceptedTypes[string(l.Type)]
	if !ok {
		return invalidf("log type", "%q is not accepted for this cache", string(l.Type))
	}

	form := map[string]string{}
	for name, value := range page.hiddenInputs {
		form[name] = value
	}
	form["ctl00$ContentBody$LogBookPanel1$btnSubmitLog"] = "Submit Log Entry"
	form["ctl00$ContentBody$LogBookPanel1$ddLogType"] = typeValue
	form["ctl00$ContentBody$LogBookPanel1$uxDateVisited"] = textutil.FormatDate(l.Visited, page.dateFormat)
	form["ctl00$ContentBody$LogBookPanel1$uxLogInfo"] = l.Text

	return c.session.PostForm(ctx, page.url, form)
}

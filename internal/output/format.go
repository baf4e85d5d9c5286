package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/crimson-sun/logwarden/internal/model"
)

// CSV section headers of the exported report.
const (
	SectionClients    = "IP Requests:"
	SectionTop        = "Most Frequently Accessed Endpoint:"
	SectionSuspicious = "Suspicious Activity:"
)

// TopEndpointText renders the endpoint line shared by the CSV and text formats.
func TopEndpointText(top model.TopEndpoint) string {
	return fmt.Sprintf("%s (Accessed %d times)", top.Endpoint, top.Count)
}

// WriteCSV writes the report as three sections separated by a blank line:
// per-client request counts, the most accessed endpoint, and suspicious
// clients. A report without records gets a bare endpoint section header.
func WriteCSV(w io.Writer, r model.Report) error {
	cw := csv.NewWriter(w)

	section := func(header string, rows [][]string) error {
		if err := cw.Write([]string{header}); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return cw.Error()
	}
	blank := func() error {
		_, err := io.WriteString(w, "\n")
		return err
	}

	clients := [][]string{{"IP Address", "Request Count"}}
	for _, c := range r.Clients {
		clients = append(clients, []string{c.ClientAddress, strconv.Itoa(c.Count)})
	}
	if err := section(SectionClients, clients); err != nil {
		return fmt.Errorf("csv clients: %w", err)
	}
	if err := blank(); err != nil {
		return err
	}

	var top [][]string
	if r.Top != nil {
		top = append(top, []string{TopEndpointText(*r.Top)})
	}
	if err := section(SectionTop, top); err != nil {
		return fmt.Errorf("csv top endpoint: %w", err)
	}
	if err := blank(); err != nil {
		return err
	}

	suspicious := [][]string{{"IP Address", "Failed Login Count"}}
	for _, s := range r.Suspicious {
		suspicious = append(suspicious, []string{s.ClientAddress, strconv.Itoa(s.FailedLoginCount)})
	}
	if err := section(SectionSuspicious, suspicious); err != nil {
		return fmt.Errorf("csv suspicious: %w", err)
	}
	return nil
}

// WriteText renders the report as aligned console tables. Counts use
// English digit grouping.
func WriteText(w io.Writer, r model.Report) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 4, 4, ' ', 0)

	if !r.Validation.Valid {
		p.Fprintf(tw, "Validation failed (%s) at line %d: %s\n\n", r.Validation.Mode, r.Validation.FailIndex, r.Validation.FailLine)
	}
	if r.Records == 0 {
		p.Fprintf(tw, "No valid log entries found.\n")
		return tw.Flush()
	}

	p.Fprintf(tw, "Request per IP Address:\n")
	p.Fprintf(tw, "IP Address\tRequest Count\n")
	for _, c := range r.Clients {
		p.Fprintf(tw, "%s\t%d\n", c.ClientAddress, c.Count)
	}

	p.Fprintf(tw, "\nMost Frequently Accessed Endpoint:\n")
	if r.Top != nil {
		p.Fprintf(tw, "%s (Accessed %d times)\n", r.Top.Endpoint, r.Top.Count)
	}

	p.Fprintf(tw, "\nSuspicious Activity Detected:\n")
	if len(r.Suspicious) == 0 {
		p.Fprintf(tw, "No suspicious activity detected.\n")
	} else {
		p.Fprintf(tw, "IP Address\tFailed Login Count\n")
		for _, s := range r.Suspicious {
			p.Fprintf(tw, "%s\t%d\n", s.ClientAddress, s.FailedLoginCount)
		}
	}
	return tw.Flush()
}

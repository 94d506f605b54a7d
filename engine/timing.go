//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/markkurossi/tabulate"
	"github.com/montanaflynn/stats"

	"github.com/markkurossi/secrec"
	"github.com/markkurossi/secrec/p2p"
)

// Timing records the per-query phase durations and renders the
// session report.
type Timing struct {
	user []time.Duration
	item []time.Duration
}

// NewTiming creates a new Timing instance.
func NewTiming() *Timing {
	return new(Timing)
}

// Sample records the phase durations of one query: the user-update
// phase covers the oblivious row fetch through the user row
// mutation, the item-update phase the complement share through the
// DPF scatter.
func (t *Timing) Sample(user, item time.Duration) {
	t.user = append(t.user, user)
	t.item = append(t.item, item)
}

// Print prints the session report to standard output.
func (t *Timing) Print(params secrec.Params, ioStats p2p.IOStats) {
	if len(t.user) == 0 {
		return
	}

	fmt.Printf("parameters: m=%d, n=%d, k=%d, q=%d\n",
		params.NumUsers, params.NumItems, params.FeatureDim,
		len(t.user))

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Query").SetAlign(tabulate.ML)
	tab.Header("User update").SetAlign(tabulate.MR)
	tab.Header("Item update").SetAlign(tabulate.MR)

	for i := range t.user {
		row := tab.Row()
		row.Column(fmt.Sprintf("%d", i))
		row.Column(t.user[i].String())
		row.Column(t.item[i].String())
	}

	for _, line := range summary(t.user, t.item) {
		row := tab.Row()
		row.Column(line.label).SetFormat(tabulate.FmtBold)
		row.Column(line.user).SetFormat(tabulate.FmtItalic)
		row.Column(line.item).SetFormat(tabulate.FmtItalic)
	}

	row := tab.Row()
	row.Column("Xfer").SetFormat(tabulate.FmtBold)
	row.Column(fileSize(ioStats.Sent.Load()).String()).
		SetFormat(tabulate.FmtItalic)
	row.Column(fileSize(ioStats.Recvd.Load()).String()).
		SetFormat(tabulate.FmtItalic)

	tab.Print(os.Stdout)
}

type summaryLine struct {
	label string
	user  string
	item  string
}

func summary(user, item []time.Duration) []summaryLine {
	return []summaryLine{
		{"Mean", durationStat(stats.Mean, user),
			durationStat(stats.Mean, item)},
		{"Median", durationStat(stats.Median, user),
			durationStat(stats.Median, item)},
		{"StdDev", durationStat(stats.StandardDeviation, user),
			durationStat(stats.StandardDeviation, item)},
	}
}

func durationStat(fn func(stats.Float64Data) (float64, error),
	samples []time.Duration) string {

	data := make(stats.Float64Data, len(samples))
	for i, d := range samples {
		data[i] = float64(d)
	}
	val, err := fn(data)
	if err != nil {
		return "-"
	}
	return time.Duration(val).String()
}

type fileSize uint64

func (s fileSize) String() string {
	if s > 1000*1000*1000 {
		return fmt.Sprintf("%dGB", s/(1000*1000*1000))
	} else if s > 1000*1000 {
		return fmt.Sprintf("%dMB", s/(1000*1000))
	} else if s > 1000 {
		return fmt.Sprintf("%dkB", s/1000)
	}
	return fmt.Sprintf("%dB", s)
}

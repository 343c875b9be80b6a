package cli

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/spyn/pkg/observability"
)

// statusHooks turns cache and builder events into user-facing status lines.
type statusHooks struct {
	w io.Writer

	// animate draws a spinner during builds instead of a static line.
	animate bool
	spinner *Spinner

	// output collects builder output when it is not streamed.
	output bytes.Buffer

	lastCommand string
	lastExit    int
}

var (
	_ observability.CacheHooks   = (*statusHooks)(nil)
	_ observability.ProcessHooks = (*statusHooks)(nil)
)

func newStatusHooks(w io.Writer) *statusHooks {
	return &statusHooks{w: w}
}

func (h *statusHooks) OnReuse(context.Context, string, string) {}

func (h *statusHooks) OnBuildStart(ctx context.Context, fp string, n int) {
	msg := "Building environment " + StyleHighlight.Render(shortFingerprint(fp)) + " " + StyleDim.Render(pluralize(n, "requirement"))
	if h.animate {
		h.spinner = newSpinnerWithContext(ctx, h.w, msg)
		h.spinner.Start()
		return
	}
	printInfo(h.w, "%s", msg)
}

func (h *statusHooks) OnBuildComplete(ctx context.Context, fp string, d time.Duration, err error) {
	cancelled := ctx.Err() != nil
	if h.spinner != nil {
		cancelled = cancelled || h.spinner.Cancelled()
		h.spinner.Stop()
		h.spinner = nil
	}
	if err != nil && cancelled {
		printWarning(h.w, "Environment build cancelled")
		return
	}
	if err == nil {
		printSuccess(h.w, "Environment ready %s", StyleDim.Render(d.Round(time.Millisecond).String()))
		return
	}
	if h.output.Len() > 0 {
		h.w.Write(h.output.Bytes())
	}
	if h.lastExit != 0 {
		printError(h.w, "Environment build failed (%s exited with status %d)", h.lastCommand, h.lastExit)
		return
	}
	printError(h.w, "Environment build failed")
}

func (h *statusHooks) OnCommandStart(_ context.Context, name string, args []string) {
	h.lastCommand = name
	if len(args) > 0 {
		h.lastCommand = name + " " + args[0]
	}
	h.lastExit = 0
}

func (h *statusHooks) OnCommandComplete(_ context.Context, _ string, exitCode int, _ time.Duration) {
	h.lastExit = exitCode
}

// shortFingerprint abbreviates a fingerprint for display.
func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

func pluralize(n int, word string) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(n))
	b.WriteByte(' ')
	b.WriteString(word)
	if n != 1 {
		b.WriteByte('s')
	}
	return b.String()
}

// Command donate runs one donation flow from the terminal. The checkout
// widget is replaced by a console prompt: it prints the options the widget
// would be opened with and waits for the payment callback JSON, e.g. as
// copied from Razorpay's test-mode checkout.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/Govind-619/DonateHub/checkout"
	"github.com/Govind-619/DonateHub/config"
	"github.com/Govind-619/DonateHub/donation"
	"github.com/Govind-619/DonateHub/utils"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	amount := flag.String("amount", "50", "donation amount in rupees")
	flag.Parse()

	cfg, err := config.LoadClientConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	if err := utils.InitLogger(cfg.LogDir); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	console := newConsoleProvider(os.Stdin, os.Stdout)
	env := checkout.NewEnvironment()
	env.Register(cfg.ScriptURL, console)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	notifier := donation.NewChannelNotifier(16)
	registry := prometheus.NewRegistry()
	coordinator := donation.NewCoordinator(
		cfg.DonationConfig(),
		env,
		checkout.NewHTTPLoader(env, httpClient),
		donation.NewHTTPBackend(cfg.APIBaseURL, httpClient),
		notifier,
		donation.WithMetrics(donation.NewMetrics(registry)),
	)

	go func() {
		for n := range notifier.C() {
			fmt.Printf("[%s] %s\n", n.Severity, n.Message)
		}
	}()

	code := run(ctx, coordinator, console, notifier, registry, *amount)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, coordinator *donation.Coordinator, console *consoleProvider, notifier *donation.ChannelNotifier, registry *prometheus.Registry, amount string) int {
	defer printFlowMetrics(os.Stdout, registry)

	flow, err := coordinator.Donate(ctx, amount)
	if err != nil {
		drain(notifier)
		if hint := failureHint(err); hint != "" {
			fmt.Println(hint)
		}
		return 1
	}

	select {
	case <-flow.Done():
	case <-console.abandoned:
		fmt.Println("Checkout closed without payment.")
	case <-ctx.Done():
	}
	drain(notifier)

	if flow.State() != donation.StateSucceeded {
		if hint := failureHint(flow.Err()); hint != "" {
			fmt.Println(hint)
		}
		return 1
	}
	fmt.Println("Donation verified. Thank you!")
	return 0
}

// failureHint words a flow error for the console. Only server-side
// failures get a hint; the notification already covers the rest.
func failureHint(err error) string {
	if utils.IsServerError(err) {
		return "The payment service is having trouble. Please try again later."
	}
	return ""
}

// printFlowMetrics prints the flow outcome and step timings gathered
// during the run
func printFlowMetrics(w io.Writer, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		utils.LogError("Failed to gather flow metrics: %v", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			label := ""
			for _, l := range m.GetLabel() {
				label = l.GetValue()
			}
			switch mf.GetName() {
			case "donatehub_flow_outcomes_total":
				if m.GetCounter().GetValue() > 0 {
					fmt.Fprintf(w, "Outcome: %s\n", label)
				}
			case "donatehub_flow_step_duration_seconds":
				h := m.GetHistogram()
				fmt.Fprintf(w, "Step %s: %d call(s), %.3fs\n", label, h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}
}

// drain prints notifications still buffered when the flow ends
func drain(n *donation.ChannelNotifier) {
	for {
		select {
		case note := <-n.C():
			fmt.Printf("[%s] %s\n", note.Severity, note.Message)
		default:
			return
		}
	}
}

type consoleProvider struct {
	in        io.Reader
	out       io.Writer
	abandoned chan struct{}
}

func newConsoleProvider(in io.Reader, out io.Writer) *consoleProvider {
	return &consoleProvider{in: in, out: out, abandoned: make(chan struct{})}
}

func (p *consoleProvider) New(opts checkout.Options) (checkout.Widget, error) {
	if opts.Handler == nil {
		return nil, fmt.Errorf("checkout options need a handler")
	}
	return &consoleWidget{provider: p, opts: opts}, nil
}

type consoleWidget struct {
	provider *consoleProvider
	opts     checkout.Options
}

func (w *consoleWidget) Open() error {
	shown, err := json.MarshalIndent(w.opts, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(w.provider.out, "Checkout opened with:\n%s\n", shown)
	fmt.Fprintln(w.provider.out, "Paste the payment response JSON (empty line to abandon):")

	go func() {
		line, err := bufio.NewReader(w.provider.in).ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			if err != nil && err != io.EOF {
				utils.LogError("Console checkout read failed: %v", err)
			}
			close(w.provider.abandoned)
			return
		}
		var resp checkout.PaymentResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			fmt.Fprintln(w.provider.out, "Could not read payment response:", err)
			close(w.provider.abandoned)
			return
		}
		w.opts.Handler(resp)
	}()
	return nil
}

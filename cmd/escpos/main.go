// cmd/escpos/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"escpos-printer/internal/config"
	"escpos-printer/internal/driver/epson"
	"escpos-printer/internal/model"
	"escpos-printer/internal/protocol"
	"escpos-printer/internal/utils"
)

const usage = `usage: escpos [flags] <job> [args]

jobs:
  text [words...]        print the words, or stdin line by line
  image <file>           print a png, jpeg, gif, bmp or webp image
  bitmap                 print a header-prefixed 1bpp stream from stdin
  barcode <type> <data>  print a barcode (ean13, upc_a, code128, ...)
  status                 report the paper sensor
  testpage               print the firmware self test page
  defaults               reset and restore formatting defaults

flags:
`

// Application runs a single print job against the configured printer
type Application struct {
	config  *config.Config
	logger  *zap.Logger
	device  protocol.DeviceProtocol
	printer *epson.Printer
	plog    *utils.PrinterLogger

	align   string
	size    string
	density int
	feed    int
}

func main() {
	flags := pflag.NewFlagSet("escpos", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "path to a config file (default ./escpos.yaml or /etc/escpos/escpos.yaml)")
	timeout := flags.DurationP("timeout", "t", 2*time.Minute, "give up on the job after this long")
	align := flags.StringP("align", "a", "left", "text alignment: left, center or right")
	size := flags.StringP("size", "s", "small", "text size: small, medium or large")
	density := flags.IntP("density", "d", 0, "image job: 0 for DC2 * raster, 1 or 2 for ESC * column density")
	feed := flags.IntP("feed", "f", 3, "lines to feed after the job")
	flags.SetInterspersed(false)
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	flags.Parse(os.Args[1:])

	if flags.NArg() < 1 {
		flags.Usage()
		os.Exit(2)
	}

	app, err := NewApplication(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	app.align = *align
	app.size = *size
	app.density = *density
	app.feed = *feed

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	err = app.Run(ctx, flags.Arg(0), flags.Args()[1:])
	app.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", flags.Arg(0), err)
		os.Exit(1)
	}
}

// NewApplication loads configuration and builds the logger
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Debug("Configuration loaded",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("connection_type", cfg.Connection.Type),
	)
	if cfg.IsDebugEnabled() {
		logger.Debug("Printer settings",
			zap.String("model", cfg.Printer.Model),
			zap.Int("line_height", cfg.Printer.LineHeight),
			zap.Int("code_page", cfg.Printer.CodePage),
			zap.Bool("apply_defaults", cfg.Printer.ApplyDefaults),
			zap.Any("connection_settings", cfg.Connection.Settings),
		)
	}

	return &Application{
		config: cfg,
		logger: logger,
	}, nil
}

// Run opens the printer and executes job
func (app *Application) Run(ctx context.Context, job string, args []string) error {
	if err := app.openPrinter(ctx); err != nil {
		return err
	}

	start := time.Now()
	err := app.runJob(ctx, job, args)
	if err == nil && app.feed > 0 && job != "status" && job != "defaults" {
		err = app.printer.Feed(ctx, feedLines(app.logger, app.feed))
	}
	app.plog.LogOperation(job, time.Since(start), err, zap.Strings("args", args))

	return err
}

// openPrinter connects the transport and prepares a session
func (app *Application) openPrinter(ctx context.Context) error {
	connectionType := model.ParseConnectionType(app.config.Connection.Type)
	settings := app.config.Connection.Settings

	if err := protocol.ValidateConfig(connectionType, settings); err != nil {
		return fmt.Errorf("invalid connection settings: %w", err)
	}

	device, err := protocol.CreateProtocol(connectionType, settings, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create %s protocol: %w", connectionType, err)
	}
	if err := device.Open(ctx); err != nil {
		return fmt.Errorf("failed to open %s connection: %w", connectionType, err)
	}
	app.device = device

	pc := app.config.Printer
	app.plog = utils.NewPrinterLogger(app.logger, pc.Model, string(connectionType))
	app.printer = epson.NewPrinter(device, app.plog, epson.Options{
		EmitBarcodeHeight:  pc.EmitBarcodeHeight,
		StatusPollAttempts: pc.StatusPollAttempts,
		StatusPollInterval: pc.StatusPollInterval,
	})

	if err := app.printer.Begin(ctx); err != nil {
		return fmt.Errorf("failed to initialize printer: %w", err)
	}
	if pc.ApplyDefaults {
		if err := app.applyDefaults(ctx); err != nil {
			return err
		}
	}

	app.plog.Info("Printer session opened", zap.String("session_id", app.plog.SessionID()))
	return nil
}

// applyDefaults restores formatting defaults, then the configured overrides
func (app *Application) applyDefaults(ctx context.Context) error {
	pc := app.config.Printer
	p := app.printer

	if err := p.SetDefault(ctx); err != nil {
		return err
	}
	if err := p.SetCharset(ctx, byte(pc.Charset)); err != nil {
		return err
	}
	if err := p.SetCodePage(ctx, byte(pc.CodePage)); err != nil {
		return err
	}
	if err := p.SetLineHeight(ctx, pc.LineHeight); err != nil {
		return err
	}
	return p.SetBarcodeHeight(ctx, pc.BarcodeHeight)
}

func (app *Application) runJob(ctx context.Context, job string, args []string) error {
	p := app.printer

	switch job {
	case "text":
		if err := p.Justify(ctx, epson.ParseAlignment(app.align)); err != nil {
			return err
		}
		if err := p.SetSize(ctx, epson.ParseSize(app.size)); err != nil {
			return err
		}
		if len(args) > 0 {
			return p.Println(ctx, strings.Join(args, " "))
		}
		return app.printLines(ctx, os.Stdin)

	case "image":
		if len(args) != 1 {
			return errors.New("image job needs exactly one file")
		}
		return app.printImage(ctx, args[0])

	case "bitmap":
		return p.PrintBitmapStream(ctx, epson.NewReaderSource(os.Stdin))

	case "barcode":
		if len(args) != 2 {
			return errors.New("barcode job needs a type and the data")
		}
		barcodeType, err := epson.ParseBarcodeType(args[0])
		if err != nil {
			return err
		}
		if err := p.Justify(ctx, epson.ParseAlignment(app.align)); err != nil {
			return err
		}
		return p.PrintBarcode(ctx, args[1], barcodeType)

	case "status":
		hasPaper, err := p.HasPaper(ctx)
		if err != nil {
			return err
		}
		status := model.PaperStatusOK
		if !hasPaper {
			status = model.PaperStatusEmpty
		}
		fmt.Println(status)
		return nil

	case "testpage":
		return p.TestPage(ctx)

	case "defaults":
		return app.applyDefaults(ctx)

	default:
		return fmt.Errorf("unknown job %q", job)
	}
}

// feedLines clamps a requested line feed to the single parameter byte
func feedLines(logger *zap.Logger, n int) byte {
	if n > 0xFF {
		logger.Warn("Feed clamped", zap.Int("requested", n), zap.Int("applied", 0xFF))
		return 0xFF
	}
	if n < 0 {
		return 0
	}
	return byte(n)
}

func (app *Application) printLines(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := app.printer.Println(ctx, scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (app *Application) printImage(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	app.logger.Debug("Image decoded",
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)

	if err := app.printer.Justify(ctx, epson.ParseAlignment(app.align)); err != nil {
		return err
	}
	if app.density > 0 {
		return app.printer.PrintImageColumns(ctx, img, epson.Density(app.density))
	}
	return app.printer.PrintImage(ctx, img)
}

// Close releases the transport and flushes the logger
func (app *Application) Close() {
	if app.device != nil {
		stats := app.device.Stats()
		app.logger.Info("Connection statistics",
			zap.String("protocol", string(app.device.GetProtocolType())),
			zap.Int64("bytes_written", stats.BytesWritten),
			zap.Int64("bytes_read", stats.BytesRead),
			zap.Int64("writes", stats.OperationCount),
			zap.Int64("errors", stats.ErrorCount),
			zap.Duration("average_latency", stats.AverageLatency),
		)
		if err := app.device.Close(); err != nil {
			app.logger.Warn("Failed to close connection", zap.Error(err))
		}
	}
	_ = utils.CloseLogger(app.logger)
}

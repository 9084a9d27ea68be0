// internal/protocol/usb_connection.go
package protocol

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"

	"escpos-printer/internal/model"
)

// USBConnection implements DeviceProtocol for USB printer-class devices
type USBConnection struct {
	config   *USBConfig
	ctx      *gousb.Context
	device   *gousb.Device
	intf     *gousb.Interface
	release  func()
	outEndpt *gousb.OutEndpoint
	inEndpt  *gousb.InEndpoint
	logger   *zap.Logger
	mutex    sync.Mutex
	isOpen   bool
	stats    ProtocolStats
	rx       rxBuffer
	receiver *contextPump
}

// NewUSBConnection creates a new USB connection
func NewUSBConnection(config *USBConfig, logger *zap.Logger) *USBConnection {
	return &USBConnection{
		config: config,
		logger: logger.With(
			zap.String("protocol", "usb"),
			zap.String("vendor_id", config.VendorID),
			zap.String("product_id", config.ProductID),
		),
	}
}

// Open claims the printer interface and starts the receive pump
func (uc *USBConnection) Open(ctx context.Context) error {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()

	if uc.isOpen {
		return nil
	}
	if uc.device != nil {
		return fmt.Errorf("USB connection is still closing")
	}

	uc.logger.Info("Opening USB connection", zap.Int("interface", uc.config.Interface))

	vendorID, err := parseHexID(uc.config.VendorID)
	if err != nil {
		return fmt.Errorf("invalid vendor ID: %w", err)
	}

	productID, err := parseHexID(uc.config.ProductID)
	if err != nil {
		return fmt.Errorf("invalid product ID: %w", err)
	}

	uc.ctx = gousb.NewContext()

	device, err := uc.findAndOpenDevice(vendorID, productID)
	if err != nil {
		uc.ctx.Close()
		return fmt.Errorf("failed to find USB device: %w", err)
	}

	if err := device.SetAutoDetach(true); err != nil {
		uc.logger.Warn("Kernel driver auto-detach unavailable", zap.Error(err))
	}

	intf, done, err := uc.claimInterface(device)
	if err != nil {
		device.Close()
		uc.ctx.Close()
		return fmt.Errorf("failed to claim interface: %w", err)
	}

	outEndpt, err := intf.OutEndpoint(uc.config.Endpoint)
	if err != nil {
		done()
		device.Close()
		uc.ctx.Close()
		return fmt.Errorf("failed to get out endpoint: %w", err)
	}

	// Printers without a status channel only expose an OUT endpoint
	inNum := uc.config.InEndpoint
	if inNum == 0 {
		inNum = uc.config.Endpoint
	}
	inEndpt, err := intf.InEndpoint(inNum)
	if err != nil {
		uc.logger.Warn("No in endpoint found", zap.Error(err))
		inEndpt = nil
	}

	uc.device = device
	uc.intf = intf
	uc.release = done
	uc.outEndpt = outEndpt
	uc.inEndpt = inEndpt
	uc.isOpen = true
	uc.stats.IsConnected = true
	uc.stats.LastActivity = time.Now()
	uc.rx.reset()

	// InEndpoint.Read cannot be interrupted; Close cancels ReadContext instead
	if inEndpt != nil {
		uc.receiver = startContextPump(&uc.rx, inEndpt.ReadContext, uc.recordRead)
	}

	uc.logger.Info("USB connection opened successfully",
		zap.String("device", describeUSBPrinter(vendorID, productID)),
		zap.Bool("status_channel", inEndpt != nil),
	)
	return nil
}

// Close stops the receive pump, then releases the interface and the USB
// context. No transfer is in flight once the pump has returned.
func (uc *USBConnection) Close() error {
	uc.mutex.Lock()
	if !uc.isOpen {
		uc.mutex.Unlock()
		return nil
	}
	uc.isOpen = false
	receiver := uc.receiver
	uc.receiver = nil
	uc.mutex.Unlock()

	// The pump takes the mutex in recordRead, so wait for it unlocked
	if receiver != nil {
		receiver.halt()
	}

	uc.mutex.Lock()
	defer uc.mutex.Unlock()

	if uc.release != nil {
		uc.release()
		uc.release = nil
	}
	uc.intf = nil

	if uc.device != nil {
		uc.device.Close()
		uc.device = nil
	}

	if uc.ctx != nil {
		uc.ctx.Close()
		uc.ctx = nil
	}

	uc.outEndpt = nil
	uc.inEndpt = nil
	uc.stats.IsConnected = false

	uc.logger.Info("USB connection closed successfully")
	return nil
}

// IsOpen returns whether the connection is open
func (uc *USBConnection) IsOpen() bool {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()
	return uc.isOpen && uc.device != nil && uc.outEndpt != nil
}

// Write writes data to the OUT endpoint
func (uc *USBConnection) Write(ctx context.Context, data []byte) error {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()

	if !uc.isOpen || uc.outEndpt == nil {
		return fmt.Errorf("USB connection not open")
	}

	if uc.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.config.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	n, err := uc.outEndpt.WriteContext(ctx, data)
	if err != nil {
		uc.stats.ErrorCount++
		uc.logger.Error("USB write failed", zap.Error(err))
		return fmt.Errorf("failed to write to USB device: %w", err)
	}

	if n != len(data) {
		uc.stats.ErrorCount++
		return fmt.Errorf("incomplete write: wrote %d of %d bytes", n, len(data))
	}

	uc.stats.recordWrite(n, time.Since(startTime))
	return nil
}

// PollByte returns the next received byte without blocking
func (uc *USBConnection) PollByte() (byte, bool, error) {
	return uc.rx.readByte()
}

// Available returns the number of received bytes not yet read
func (uc *USBConnection) Available() int {
	return uc.rx.available()
}

// GetProtocolType returns the protocol type
func (uc *USBConnection) GetProtocolType() model.ConnectionType {
	return model.ConnectionTypeUSB
}

// Stats returns a snapshot of the connection statistics
func (uc *USBConnection) Stats() ProtocolStats {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()
	return uc.stats
}

func (uc *USBConnection) recordRead(n int) {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()
	uc.stats.BytesRead += int64(n)
	uc.stats.LastActivity = time.Now()
}

// claimInterface claims the configured interface, alternate setting 0
func (uc *USBConnection) claimInterface(device *gousb.Device) (*gousb.Interface, func(), error) {
	if uc.config.Interface == 0 {
		return device.DefaultInterface()
	}

	cfgNum, err := device.ActiveConfigNum()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read active config: %w", err)
	}

	cfg, err := device.Config(cfgNum)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to select config %d: %w", cfgNum, err)
	}

	intf, err := cfg.Interface(uc.config.Interface, 0)
	if err != nil {
		cfg.Close()
		return nil, nil, err
	}

	return intf, func() {
		intf.Close()
		cfg.Close()
	}, nil
}

// findAndOpenDevice opens the first device matching vendor and product
func (uc *USBConnection) findAndOpenDevice(vendorID, productID gousb.ID) (*gousb.Device, error) {
	devices, err := uc.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == vendorID && desc.Product == productID
	})
	if err != nil {
		for _, d := range devices {
			d.Close()
		}
		return nil, fmt.Errorf("failed to enumerate USB devices: %w", err)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("USB device not found (VID: %04X, PID: %04X)", uint16(vendorID), uint16(productID))
	}

	if len(devices) > 1 {
		for i := 1; i < len(devices); i++ {
			devices[i].Close()
		}
		uc.logger.Warn("Multiple matching USB devices found, using first one")
	}

	return devices[0], nil
}

// parseHexID parses hex ID string (0x1234 or 1234)
func parseHexID(hexStr string) (gousb.ID, error) {
	hexStr = strings.TrimPrefix(strings.ToLower(hexStr), "0x")

	id, err := strconv.ParseUint(hexStr, 16, 16)
	if err != nil {
		return 0, err
	}

	return gousb.ID(id), nil
}

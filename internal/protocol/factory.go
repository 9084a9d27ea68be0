// internal/protocol/factory.go
package protocol

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"escpos-printer/internal/model"
)

// CreateProtocol creates a protocol based on connection type and settings
func CreateProtocol(connectionType model.ConnectionType, config map[string]interface{}, logger *zap.Logger) (DeviceProtocol, error) {
	switch connectionType {
	case model.ConnectionTypeSerial:
		return createSerialProtocol(config, logger)
	case model.ConnectionTypeUSB:
		return createUSBProtocol(config, logger)
	case model.ConnectionTypeTCP:
		return createTCPProtocol(config, logger)
	case model.ConnectionTypeFile:
		return createFileProtocol(config, logger)
	default:
		return nil, fmt.Errorf("unsupported protocol type: %s", connectionType)
	}
}

// createSerialProtocol creates a serial protocol
func createSerialProtocol(config map[string]interface{}, logger *zap.Logger) (DeviceProtocol, error) {
	serialConfig := &SerialConfig{
		BaudRate: 9600,
		DataBits: 8,
		StopBits: 1,
		Parity:   "none",
		Timeout:  5 * time.Second,
	}

	if port, ok := config["port"].(string); ok && port != "" {
		serialConfig.Port = port
	} else {
		return nil, fmt.Errorf("serial port is required")
	}

	if v, ok := intSetting(config, "baud_rate"); ok {
		serialConfig.BaudRate = v
	}
	if v, ok := intSetting(config, "data_bits"); ok {
		serialConfig.DataBits = v
	}
	if v, ok := intSetting(config, "stop_bits"); ok {
		serialConfig.StopBits = v
	}
	if parity, ok := config["parity"].(string); ok {
		serialConfig.Parity = strings.ToLower(parity)
	}
	if v, ok := durationSetting(config, "timeout"); ok {
		// A zero read timeout makes the receive pump spin
		if v <= 0 {
			return nil, fmt.Errorf("serial timeout must be positive, got %s", v)
		}
		serialConfig.Timeout = v
	}

	logger.Info("Creating serial protocol",
		zap.String("port", serialConfig.Port),
		zap.Int("baud_rate", serialConfig.BaudRate),
	)

	return NewSerialConnection(serialConfig, logger), nil
}

// createUSBProtocol creates a USB protocol
func createUSBProtocol(config map[string]interface{}, logger *zap.Logger) (DeviceProtocol, error) {
	usbConfig := &USBConfig{
		Interface: 0,
		Endpoint:  1,
		Timeout:   5 * time.Second,
	}

	if vendorID, ok := config["vendor_id"].(string); ok {
		usbConfig.VendorID = vendorID
	} else {
		return nil, fmt.Errorf("USB vendor_id is required")
	}

	if productID, ok := config["product_id"].(string); ok {
		usbConfig.ProductID = productID
	} else {
		return nil, fmt.Errorf("USB product_id is required")
	}

	if v, ok := intSetting(config, "interface"); ok {
		usbConfig.Interface = v
	}
	if v, ok := intSetting(config, "endpoint"); ok {
		usbConfig.Endpoint = v
	}
	if v, ok := intSetting(config, "in_endpoint"); ok {
		usbConfig.InEndpoint = v
	}
	if v, ok := durationSetting(config, "timeout"); ok {
		usbConfig.Timeout = v
	}

	logger.Info("Creating USB protocol",
		zap.String("vendor_id", usbConfig.VendorID),
		zap.String("product_id", usbConfig.ProductID),
		zap.Int("interface", usbConfig.Interface),
	)

	return NewUSBConnection(usbConfig, logger), nil
}

// createTCPProtocol creates a TCP protocol
func createTCPProtocol(config map[string]interface{}, logger *zap.Logger) (DeviceProtocol, error) {
	tcpConfig := &TCPConfig{
		Port:         9100, // Default raw printing port
		KeepAlive:    true,
		Timeout:      10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	if host, ok := config["host"].(string); ok && host != "" {
		tcpConfig.Host = host
	} else {
		return nil, fmt.Errorf("TCP host is required")
	}

	if v, ok := intSetting(config, "port"); ok {
		tcpConfig.Port = v
	}
	if keepAlive, ok := config["keep_alive"].(bool); ok {
		tcpConfig.KeepAlive = keepAlive
	}
	if v, ok := durationSetting(config, "timeout"); ok {
		tcpConfig.Timeout = v
	}
	if v, ok := durationSetting(config, "write_timeout"); ok {
		tcpConfig.WriteTimeout = v
	}

	logger.Info("Creating TCP protocol",
		zap.String("host", tcpConfig.Host),
		zap.Int("port", tcpConfig.Port),
	)

	return NewTCPConnection(tcpConfig, logger), nil
}

// createFileProtocol creates a file protocol
func createFileProtocol(config map[string]interface{}, logger *zap.Logger) (DeviceProtocol, error) {
	fileConfig := &FileConfig{}

	if path, ok := config["path"].(string); ok && path != "" {
		fileConfig.Path = path
	} else {
		return nil, fmt.Errorf("file path is required")
	}

	if appendMode, ok := config["append"].(bool); ok {
		fileConfig.Append = appendMode
	}

	logger.Info("Creating file protocol", zap.String("path", fileConfig.Path))

	return NewFileConnection(fileConfig, logger), nil
}

// ValidateConfig validates settings for a specific protocol type
func ValidateConfig(connectionType model.ConnectionType, config map[string]interface{}) error {
	switch connectionType {
	case model.ConnectionTypeSerial:
		return validateSerialConfig(config)
	case model.ConnectionTypeUSB:
		return validateUSBConfig(config)
	case model.ConnectionTypeTCP:
		return validateTCPConfig(config)
	case model.ConnectionTypeFile:
		return validateFileConfig(config)
	default:
		return fmt.Errorf("unsupported connection type: %s", connectionType)
	}
}

// validateSerialConfig validates serial configuration
func validateSerialConfig(config map[string]interface{}) error {
	if port, ok := config["port"].(string); !ok || port == "" {
		return fmt.Errorf("serial port is required")
	}

	if _, present := config["baud_rate"]; present {
		rate, ok := intSetting(config, "baud_rate")
		if !ok {
			return fmt.Errorf("invalid baud_rate type")
		}

		validRates := []int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200}
		valid := false
		for _, validRate := range validRates {
			if rate == validRate {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid baud rate: %d", rate)
		}
	}

	if _, present := config["timeout"]; present {
		timeout, ok := durationSetting(config, "timeout")
		if !ok {
			return fmt.Errorf("invalid serial timeout")
		}
		if timeout <= 0 {
			return fmt.Errorf("serial timeout must be positive, got %s", timeout)
		}
	}

	return nil
}

// validateUSBConfig validates USB configuration
func validateUSBConfig(config map[string]interface{}) error {
	vendorID, ok := config["vendor_id"].(string)
	if !ok {
		return fmt.Errorf("USB vendor_id is required")
	}
	if _, err := parseHexID(vendorID); err != nil {
		return fmt.Errorf("invalid USB vendor_id %q: %w", vendorID, err)
	}

	productID, ok := config["product_id"].(string)
	if !ok {
		return fmt.Errorf("USB product_id is required")
	}
	if _, err := parseHexID(productID); err != nil {
		return fmt.Errorf("invalid USB product_id %q: %w", productID, err)
	}

	return nil
}

// validateTCPConfig validates TCP configuration
func validateTCPConfig(config map[string]interface{}) error {
	if host, ok := config["host"].(string); !ok || host == "" {
		return fmt.Errorf("TCP host is required")
	}

	if _, present := config["port"]; present {
		portNum, ok := intSetting(config, "port")
		if !ok {
			return fmt.Errorf("invalid port type")
		}

		if portNum < 1 || portNum > 65535 {
			return fmt.Errorf("invalid port number: %d", portNum)
		}
	}

	return nil
}

// validateFileConfig validates file configuration
func validateFileConfig(config map[string]interface{}) error {
	if path, ok := config["path"].(string); !ok || path == "" {
		return fmt.Errorf("file path is required")
	}
	return nil
}

// intSetting reads a numeric setting decoded from JSON (float64) or YAML (int)
func intSetting(config map[string]interface{}, key string) (int, bool) {
	switch v := config[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// durationSetting accepts "5s" style strings or a time.Duration
func durationSetting(config map[string]interface{}, key string) (time.Duration, bool) {
	switch v := config[key].(type) {
	case time.Duration:
		return v, true
	case string:
		dur, err := time.ParseDuration(v)
		if err != nil {
			return 0, false
		}
		return dur, true
	default:
		return 0, false
	}
}

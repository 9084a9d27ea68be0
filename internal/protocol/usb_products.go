// internal/protocol/usb_products.go
package protocol

import (
	"fmt"

	"github.com/google/gousb"
)

// usbVendor names a receipt printer maker and the models we have seen
type usbVendor struct {
	name     string
	products map[gousb.ID]string
}

// knownUSBPrinters is only used to put a readable name in the logs
var knownUSBPrinters = map[gousb.ID]usbVendor{
	0x04B8: {
		name: "Seiko Epson Corporation",
		products: map[gousb.ID]string{
			0x0202: "TM-T88IV",
			0x0203: "TM-T88V",
			0x0214: "TM-T88VI",
			0x0215: "TM-T20III",
			0x0216: "TM-T82III",
			0x0217: "TM-M30",
		},
	},
	0x0519: {
		name: "Star Micronics Co., Ltd.",
		products: map[gousb.ID]string{
			0x0001: "TSP143III",
			0x0002: "TSP143IIIU",
			0x0003: "TSP654II",
		},
	},
	0x1CBE: {
		name: "Citizen Systems Japan Co., Ltd.",
		products: map[gousb.ID]string{
			0x0001: "CT-S310II",
			0x0002: "CT-S4000",
		},
	},
	0x1504: {
		name: "BIXOLON Co., Ltd.",
		products: map[gousb.ID]string{
			0x0006: "SRP-330II",
			0x0007: "SRP-350III",
		},
	},
	0x0416: {
		name: "Winbond (generic 58mm thermal)",
	},
}

// describeUSBPrinter returns "vendor model" for known devices and the
// raw ids otherwise
func describeUSBPrinter(vendorID, productID gousb.ID) string {
	vendor, ok := knownUSBPrinters[vendorID]
	if !ok {
		return fmt.Sprintf("%s:%s", vendorID, productID)
	}
	if model, ok := vendor.products[productID]; ok {
		return vendor.name + " " + model
	}
	return fmt.Sprintf("%s %s", vendor.name, productID)
}

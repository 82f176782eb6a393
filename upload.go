package main

import (
	"encoding/binary"
	"fmt"
	"log"
	"time"

	"go.bug.st/serial"
)

// Image upload to an attached datalogger over its USB serial port.

const defaultBaudRate = 115200

// Opening the port raises DTR, which resets the device; the bootloader
// snoops the line briefly after reset before accepting an image.
const resetDelay = 2 * time.Second

// uploadImage streams the compiled image to the datalogger: a 4-byte
// little-endian length, then the image bytes.
func uploadImage(image []byte, portName string, baudRate int) error {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return fmt.Errorf("opening %s: %w", portName, err)
	}
	defer port.Close()

	log.Printf("serial port open, waiting %v for device reset", resetDelay)
	time.Sleep(resetDelay)

	header := make([]byte, 4)
	binary.LittleEndian.PutUint32(header, uint32(len(image)))
	if _, err := port.Write(header); err != nil {
		return fmt.Errorf("writing image header: %w", err)
	}
	for written := 0; written < len(image); {
		n, err := port.Write(image[written:])
		if err != nil {
			return fmt.Errorf("writing image at offset %d: %w", written, err)
		}
		written += n
	}
	if err := port.Drain(); err != nil {
		return fmt.Errorf("draining port: %w", err)
	}
	log.Printf("uploaded %d bytes to %s", len(image), portName)
	return nil
}

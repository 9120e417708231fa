// cmd/oledsend/main.go
//
// oledsend encodes a text file (or stdin) as one display transfer and writes
// it to the device over serial or hidraw.
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/photonicat/mintaka_screen/internal/protocol"
	"github.com/photonicat/mintaka_screen/internal/transport"
)

func main() {
	serialAddr := flag.String("serial", "", "serial device, e.g. /dev/ttyACM0")
	baud := flag.Int("baud", 115200, "serial baud rate")
	hidraw := flag.String("hidraw", "", "hidraw device, e.g. /dev/hidraw3")
	every := flag.Duration("every", 0, "resend interval; 0 sends once")
	flag.Parse()

	if (*serialAddr == "") == (*hidraw == "") {
		log.Fatal("usage: oledsend (-serial <dev> | -hidraw <dev>) [-every 2s] [file]")
	}

	var (
		w      io.WriteCloser
		prefix []byte
		err    error
	)
	if *serialAddr != "" {
		w, err = transport.OpenSerial(transport.SerialConfig{
			Address:  *serialAddr,
			BaudRate: *baud,
			Timeout:  time.Second,
		})
	} else {
		w, err = transport.OpenHidraw(*hidraw, true)
		prefix = transport.HidrawReportPrefix
	}
	if err != nil {
		log.Fatal(err)
	}
	defer w.Close()

	path := flag.Arg(0)
	for {
		text, err := readText(path)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}
		chunks := protocol.EncodeLines(protocol.SplitText(text))
		if err := transport.Send(w, prefix, chunks); err != nil {
			log.Fatal(err)
		}
		if *every <= 0 || path == "" {
			return
		}
		time.Sleep(*every)
	}
}

// readText reads path, or stdin when path is empty.
func readText(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	return string(data), err
}

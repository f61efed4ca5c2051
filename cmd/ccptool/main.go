// ccptool inspects and generates CCP packets. It decodes hex-encoded
// route control requests, route update requests and acknowledgements, and
// emits sample packets for exercising a peer implementation.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/connectornet/ccp/ccperrors"
	"github.com/connectornet/ccp/ccpmessage"
	"github.com/connectornet/ccp/envelope"
	"github.com/connectornet/ccp/util/routingid"
	"github.com/connectornet/ccp/version"
)

func main() {
	cfg, err := parseConfig()
	if err != nil {
		printErrorAndExit(fmt.Sprintf("error parsing command-line arguments: %s", err))
	}
	if cfg.ShowVersion {
		fmt.Println("ccptool version", version.Version())
		return
	}

	err = enableLogging(cfg)
	if err != nil {
		printErrorAndExit(fmt.Sprintf("error enabling logging: %s", err))
	}
	defer backendLog.Close()

	switch {
	case cfg.Decode != "":
		err = decodePacket(cfg)
	case cfg.MakeControl:
		err = makeControlRequest(cfg)
	case cfg.MakeUpdate:
		err = makeUpdateRequest(cfg)
	case cfg.MakeResponse:
		err = makeResponse()
	}
	if err != nil {
		printErrorAndExit(err.Error())
	}
}

func decodePacket(cfg *configFlags) error {
	packet, err := readPacket(cfg.Decode)
	if err != nil {
		return err
	}
	if len(packet) == 0 {
		return fmt.Errorf("empty packet")
	}

	switch packet[0] {
	case envelope.TypeResponse:
		msg, err := ccpmessage.DeserializeCCPResponse(packet)
		if err != nil {
			return err
		}
		log.Debugf("decoded %d-byte response packet", len(packet))
		fmt.Print(spew.Sdump(msg))
		return nil

	case envelope.TypeRequest:
		return decodeRequest(cfg, packet)
	}
	return fmt.Errorf("unknown envelope type %d", packet[0])
}

func decodeRequest(cfg *configFlags, packet []byte) error {
	request, err := envelope.DeserializeRequest(packet)
	if err != nil {
		return err
	}
	log.Debugf("decoded %d-byte request envelope for %s", len(packet), request.Destination)

	var msg interface{}
	switch request.Destination {
	case ccpmessage.RouteControlDestination:
		msg, err = ccpmessage.DeserializeRouteControlRequest(packet)
	case ccpmessage.RouteUpdateDestination:
		msg, err = ccpmessage.DeserializeRouteUpdateRequest(packet)
	default:
		return fmt.Errorf("envelope destination %q is not a CCP destination",
			request.Destination)
	}
	if err != nil {
		// The codec refuses expired requests. For captured packets the
		// raw envelope is still worth looking at.
		if cfg.IgnoreExpiry && ccperrors.IsCode(err, ccperrors.ErrExpired) {
			log.Warnf("request expired at %s, dumping raw envelope", request.ExpiresAt)
			fmt.Print(spew.Sdump(request))
			return nil
		}
		return err
	}
	fmt.Print(spew.Sdump(msg))
	return nil
}

func makeControlRequest(cfg *configFlags) error {
	tableID, err := routingid.FromString(cfg.TableID)
	if err != nil {
		return err
	}
	msg := ccpmessage.NewMsgRouteControlRequest(cfg.Speaker, tableID, cfg.Epoch, cfg.Features)
	return printPacket(msg.Serialize())
}

func makeUpdateRequest(cfg *configFlags) error {
	tableID, err := routingid.FromString(cfg.TableID)
	if err != nil {
		return err
	}
	routes := make([]*ccpmessage.Route, 0, len(cfg.Announce))
	for _, prefix := range cfg.Announce {
		routes = append(routes, &ccpmessage.Route{
			Prefix: prefix,
			Auth:   make([]byte, ccpmessage.RouteAuthLength),
		})
	}
	msg := ccpmessage.NewMsgRouteUpdateRequest(tableID,
		cfg.CurrentEpoch, cfg.FromEpoch, cfg.ToEpoch, routes, cfg.Withdraw)
	return printPacket(msg.Serialize())
}

func makeResponse() error {
	return printPacket(ccpmessage.NewMsgCCPResponse().Serialize())
}

func printPacket(packet []byte, err error) error {
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(packet))
	return nil
}

func readPacket(arg string) ([]byte, error) {
	hexPacket := arg
	if arg == "-" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("error reading packet from stdin: %s", err)
		}
		hexPacket = line
	}
	return hex.DecodeString(strings.TrimSpace(hexPacket))
}

func printErrorAndExit(message string) {
	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(1)
}

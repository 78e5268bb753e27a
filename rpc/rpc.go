// Package rpc exposes an engine for remote control, so a rack console on
// another machine (or another process) can edit the effect chains of a
// running engine. The wire carries only the textual protocol the engine
// already speaks.
package rpc

import (
	"fmt"
	"net"
	"net/http"
	"net/rpc"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
)

const Port = ":31337"

type (
	// EffectServer adapts a solaraudio.Engine to the net/rpc calling
	// convention.
	EffectServer struct {
		engine solaraudio.Engine
	}

	SetParameterArgs struct {
		EffectID int
		Param    string
		Value    float64
	}

	AddEffectArgs struct {
		TrackID int
		Kind    solaraudio.EffectKind
	}

	RemoveEffectArgs struct {
		TrackID  int
		EffectID int
	}

	// Client is the remote side: a solaraudio.Engine whose every call is
	// one synchronous round trip to the server.
	Client struct {
		client *rpc.Client
	}
)

func (s *EffectServer) TrackEffects(trackID int, reply *string) error {
	list, err := s.engine.TrackEffects(trackID)
	if err != nil {
		return err
	}
	*reply = list
	return nil
}

func (s *EffectServer) EffectInfo(effectID int, reply *string) error {
	info, err := s.engine.EffectInfo(effectID)
	if err != nil {
		return err
	}
	*reply = info
	return nil
}

func (s *EffectServer) SetEffectParameter(args SetParameterArgs, reply *int) error {
	return s.engine.SetEffectParameter(args.EffectID, args.Param, args.Value)
}

func (s *EffectServer) AddEffectToTrack(args AddEffectArgs, reply *int) error {
	*reply = s.engine.AddEffectToTrack(args.TrackID, args.Kind)
	return nil
}

func (s *EffectServer) RemoveEffectFromTrack(args RemoveEffectArgs, reply *int) error {
	s.engine.RemoveEffectFromTrack(args.TrackID, args.EffectID)
	return nil
}

// Serve registers the engine and starts accepting connections on addr
// (":31337" when empty). It returns once the listener is up.
func Serve(engine solaraudio.Engine, addr string) error {
	if addr == "" {
		addr = Port
	}
	server := &EffectServer{engine: engine}
	if err := rpc.Register(server); err != nil {
		return fmt.Errorf("rpc.Register failed: %v", err)
	}
	rpc.HandleHTTP()
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("net.Listen failed: %v", err)
	}
	go http.Serve(l, nil)
	return nil
}

// Dial connects to a remote engine. serverAddress is a host name or ip
// without the port.
func Dial(serverAddress string) (*Client, error) {
	client, err := rpc.DialHTTP("tcp", serverAddress+Port)
	if err != nil {
		return nil, fmt.Errorf("rpc.DialHTTP failed: %v", err)
	}
	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) TrackEffects(trackID int) (string, error) {
	var reply string
	err := c.client.Call("EffectServer.TrackEffects", trackID, &reply)
	return reply, err
}

func (c *Client) EffectInfo(effectID int) (string, error) {
	var reply string
	err := c.client.Call("EffectServer.EffectInfo", effectID, &reply)
	return reply, err
}

func (c *Client) SetEffectParameter(effectID int, param string, value float64) error {
	var reply int
	return c.client.Call("EffectServer.SetEffectParameter", SetParameterArgs{effectID, param, value}, &reply)
}

func (c *Client) AddEffectToTrack(trackID int, kind solaraudio.EffectKind) int {
	var reply int
	if err := c.client.Call("EffectServer.AddEffectToTrack", AddEffectArgs{trackID, kind}, &reply); err != nil {
		return -1
	}
	return reply
}

func (c *Client) RemoveEffectFromTrack(trackID, effectID int) {
	var reply int
	c.client.Call("EffectServer.RemoveEffectFromTrack", RemoveEffectArgs{trackID, effectID}, &reply)
}

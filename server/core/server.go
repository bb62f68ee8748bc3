package core

import (
	"log"

	"github.com/automoto/doomerang-arena/shared/messages"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

// Server relays presence and topic messages between the members of each room.
type Server struct {
	hub       *Hub
	loop      *GameLoop
	transport *transports.WsServerTransport
}

// NewServer creates a relay that hosts the given room kinds.
func NewServer(tickRate int, allowedKinds []string) *Server {
	s := &Server{
		hub: NewHub(allowedKinds),
	}
	s.loop = NewGameLoop(s, tickRate)

	// Register router callbacks
	s.setupRouterCallbacks()

	return s
}

// Start begins the server on the given port
func (s *Server) Start(port uint) error {
	// Start flush loop
	go s.loop.Run()

	// Create and start WebSocket transport
	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	s.loop.Stop()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("[relay] client connected: %s", client.Id())
	})

	// Disconnection counts as leaving
	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		if err != nil {
			log.Printf("[relay] client %s disconnected with error: %v", client.Id(), err)
		} else {
			log.Printf("[relay] client %s disconnected", client.Id())
		}
		s.hub.Leave(client)
	})

	router.On(func(client *router.NetworkClient, req messages.JoinRequest) {
		s.hub.Join(client, req)
	})

	router.On(func(client *router.NetworkClient, msg messages.PresenceUpdate) {
		s.hub.UpdatePresence(client, msg.Presence)
	})

	router.On(func(client *router.NetworkClient, msg messages.TopicPublish) {
		s.hub.Publish(client, msg)
	})

	router.On(func(client *router.NetworkClient, _ messages.LeaveRequest) {
		s.hub.Leave(client)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[relay] client error: %v", err)
	})
}

// Hub returns the room registry
func (s *Server) Hub() *Hub {
	return s.hub
}

// PlayerCount returns the number of connected room members
func (s *Server) PlayerCount() int {
	return s.hub.MemberCount()
}

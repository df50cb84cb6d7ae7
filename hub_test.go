package main

import (
	"testing"
)

func testHub() (*Hub, *chatServer) {
	store := NewRoomStore(50)
	hub := NewHub()
	srv := newChatServer(store, hub, 1000, nil, testLogger())
	return hub, srv
}

func TestHubSubscribeUnregister(t *testing.T) {
	hub, srv := testHub()
	c := newClient(srv, nil)
	hub.register(c)

	hub.subscribe(c, "lobby")
	if !hub.rooms["lobby"][c] {
		t.Fatalf("client not subscribed")
	}

	hub.unregister(c)
	if _, ok := hub.rooms["lobby"]; ok {
		t.Fatalf("room set not removed after last unregister")
	}
	if _, ok := hub.clients[c]; ok {
		t.Fatalf("client still tracked after unregister")
	}
}

func TestHubUnregisterReleasesAllRooms(t *testing.T) {
	hub, srv := testHub()
	c := newClient(srv, nil)
	other := newClient(srv, nil)
	hub.register(c)
	hub.register(other)

	hub.subscribe(c, "a")
	hub.subscribe(c, "b")
	hub.subscribe(other, "a")

	hub.unregister(c)
	if hub.rooms["a"][c] {
		t.Fatalf("still subscribed to a")
	}
	if _, ok := hub.rooms["b"]; ok {
		t.Fatalf("empty room b not removed")
	}
	if !hub.rooms["a"][other] {
		t.Fatalf("other client lost its subscription")
	}
}

func TestHubSubscribeIsAdditive(t *testing.T) {
	hub, srv := testHub()
	c := newClient(srv, nil)
	hub.register(c)

	hub.subscribe(c, "first")
	hub.subscribe(c, "second")
	if !hub.rooms["first"][c] || !hub.rooms["second"][c] {
		t.Fatalf("joining a second room dropped the first")
	}
}

func TestHubBroadcastIncludesSender(t *testing.T) {
	hub, srv := testHub()
	sender := newClient(srv, nil)
	peer := newClient(srv, nil)
	hub.register(sender)
	hub.register(peer)
	hub.subscribe(sender, "lobby")
	hub.subscribe(peer, "lobby")

	msg := []byte(`{"type":"message"}`)
	hub.broadcast("lobby", msg, nil)

	for _, c := range []*Client{sender, peer} {
		select {
		case got := <-c.send:
			if string(got) != string(msg) {
				t.Fatalf("expected %q, got %q", msg, got)
			}
		default:
			t.Fatalf("subscriber missed the broadcast")
		}
		select {
		case <-c.send:
			t.Fatalf("subscriber received the broadcast twice")
		default:
		}
	}
}

func TestHubBroadcastScopedToRoom(t *testing.T) {
	hub, srv := testHub()
	in := newClient(srv, nil)
	out := newClient(srv, nil)
	hub.register(in)
	hub.register(out)
	hub.subscribe(in, "lobby")
	hub.subscribe(out, "elsewhere")

	hub.broadcast("lobby", []byte("x"), nil)

	select {
	case <-out.send:
		t.Fatalf("broadcast leaked into another room")
	default:
	}
}

func TestHubBroadcastExcludesSender(t *testing.T) {
	hub, srv := testHub()
	sender := newClient(srv, nil)
	peer := newClient(srv, nil)
	hub.register(sender)
	hub.register(peer)
	hub.subscribe(sender, "lobby")
	hub.subscribe(peer, "lobby")

	hub.broadcast("lobby", []byte("x"), sender)

	select {
	case <-sender.send:
		t.Fatalf("excluded sender still received the broadcast")
	default:
	}
	select {
	case <-peer.send:
	default:
		t.Fatalf("peer missed the broadcast")
	}
}

func TestHubBroadcastFullBufferIsolated(t *testing.T) {
	hub, srv := testHub()
	stuck := newClient(srv, nil)
	healthy := newClient(srv, nil)
	hub.register(stuck)
	hub.register(healthy)
	hub.subscribe(stuck, "lobby")
	hub.subscribe(healthy, "lobby")

	for i := 0; i < cap(stuck.send); i++ {
		stuck.send <- []byte("fill")
	}

	hub.broadcast("lobby", []byte("x"), nil)

	select {
	case got := <-healthy.send:
		if string(got) != "x" {
			t.Fatalf("expected %q, got %q", "x", got)
		}
	default:
		t.Fatalf("healthy subscriber starved by a stuck one")
	}
	if hub.rooms["lobby"][stuck] {
		t.Fatalf("stuck subscriber not dropped from the room")
	}
}

func TestNewClient(t *testing.T) {
	_, srv := testHub()
	c := newClient(srv, nil)
	if c.send == nil || cap(c.send) != 256 {
		t.Fatalf("send channel not initialized correctly")
	}
	if c.limiter == nil {
		t.Fatalf("limiter not initialized")
	}
}

/*
Package tripkit is a client SDK for the TripWell tours-booking API, built
around an explicit session lifecycle: restore on startup, authenticate,
keep the transport and the credential store in lockstep, and invalidate
everything the moment the backend rejects a credential.

It follows a Hexagonal Architecture: the session manager at the core talks
to a CredentialStore port on one side and an HTTP binding on the other, so
hosts can swap persistence (file, memory, redis) without touching the
lifecycle logic.

# Concept

A session is two pieces of state that must never disagree: the bearer token
on the API client's Authorization header and the credentials in persistent
storage. Every operation that changes one changes both inside a single
critical section. Consumers observe the session only through snapshots and
coarse results; raw backend errors never escape the manager.

# Usage

The root package wires the default stack:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/tripwell/tripkit"
	)

	func main() {
		tk, err := tripkit.New("https://api.tripwell.example")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		tk.Session.Hydrate(ctx)

		res := tk.Session.Login(ctx, "dana@example.com", "secret")
		if !res.Success {
			log.Fatal(res.Message)
		}

		tours, err := tk.API.ListTours(ctx)
		if err != nil {
			log.Fatal(err)
		}
		for _, tour := range tours {
			fmt.Println(tour.Title)
		}
	}

For persistent sessions pass a store:

	store, _ := file.New("")
	tk, err := tripkit.New(baseURL, tripkit.WithStore(store))

# Packages

  - pkg/session: the lifecycle manager and the Session consumer contract.
  - pkg/api: the HTTP binding (endpoints, envelope decoding, error taxonomy).
  - pkg/ports: the CredentialStore port and its reusable contract test.
  - pkg/adapters/{file,memory,redis}: store implementations.
  - pkg/domain: users, tours, bookings, results, sentinel errors.
*/
package tripkit

// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

/*
Package supervisor provides process supervision for Visitormatch using suture v4.

The tree organizes long-running services into layers for failure isolation:

	RootSupervisor ("visitormatch")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── CacheJanitorService (if EVENTS_ENABLED)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventProcessorService (if EVENTS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A broker outage restarts the event processor with backoff while the HTTP
API keeps serving synchronous match requests.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Supervisor events (restarts, backoff, timeouts) are logged through the
sutureslog hook on the root supervisor.

# Thread Safety

Services may be added before or while the tree is serving.
*/
package supervisor

// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

/*
Package supervisor runs the job board's long-lived services under suture v4.

The tree has two layers so that a failing background writer never takes
the HTTP listener down with it:

	RootSupervisor ("jobboard")
	├── DataSupervisor ("data-layer")
	│   └── DuckDBSink (if ANALYTICS_BACKEND=duckdb)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with backoff. Cancelling the context passed to
Serve stops every layer, waiting up to ShutdownTimeout per service.
Supervisor events are logged through sutureslog, which in turn writes to
the zerolog logger via logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(sink)
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}
*/
package supervisor

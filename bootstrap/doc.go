// Package bootstrap orchestrates the lifecycle of an appkit application.
//
// An App owns a di.Container of services and an ordered list of components.
// Its lifecycle is
//
//	INITIALIZING → RUNNING → STOPPING → STOPPED
//
// with ERROR reached when initialization or startup fails.
//
// # Quick Start
//
//	app, err := bootstrap.New("orders", config.Map{"log_level": "info"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app.RegisterService("db", newDatabase, di.WithConfig(dbOptions))
//	app.RegisterComponent(httpComponent)
//	if err := app.RunUntilSignal(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// Initialize runs startup handlers and then initializes components in
// registration order, aborting on the first failure. Run also starts the
// components and watches SIGINT/SIGTERM. Shutdown stops components in
// reverse order, runs shutdown handlers and cleans up services, logging any
// failure without stopping early. Scope wraps Initialize and Shutdown around
// a function for finite jobs.
package bootstrap

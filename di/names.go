package di

// CoreNames holds the names under which an application registers its own
// infrastructure in its container. Projects embed this struct in their own
// service name sets.
type CoreNames struct {
	App    string
	Config string
	Logger string
}

// Core contains the names bootstrap.App registers at construction.
var Core = CoreNames{
	App:    "app",
	Config: "config",
	Logger: "logger",
}

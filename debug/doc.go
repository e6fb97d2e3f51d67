// Package debug provides namespaced debug channels that are silent unless
// their name is enabled.
//
// A Registry holds the enabled namespaces, usually taken from the DEBUG
// environment variable, and hands out Channels. A channel checks the current
// namespaces on every call, so enabling or disabling takes effect immediately
// for channels created earlier.
//
// # Basic Usage
//
//	log := debug.New("app:http")
//	log.Log("request %s %d", path, status)
//
//	$ DEBUG=app:* ./server
//	  app:http request /health 200 +0ms
//
// # Namespaces
//
// The enable-string is a list of patterns separated by commas or spaces.
// A '*' matches any run of characters and a leading '-' excludes matching
// names. Exclusions always win:
//
//	reg.Enable("app:*,-app:verbose")
//	reg.Enabled("app:db")      // true
//	reg.Enabled("app:verbose") // false
//
// # Directives
//
// The first argument of Log is a template. %o and %O inspect a value, %j
// marshals it to JSON, %s prints it and %d prints it as a number; %% is a
// literal percent sign. More directives can be added with
// Registry.SetFormatter.
//
// # Persistence
//
// Enable saves the enable-string to the registry's store (the DEBUG variable
// unless WithStore says otherwise). With a store that supports watching,
// Registry.Watch keeps several processes on the same namespaces.
//
// # Output
//
// Channel output goes through a Decorator, which adds the namespace and
// timing, and then to a sink. Colors are used when stderr is a terminal and
// can be forced with DEBUG_COLORS.
package debug

// Package cli implements the flowgraph command line client. It talks to a
// running flowgraphd over the HTTP API and the websocket log stream; it
// never imports the server packages, so the wire types are declared here
// independently.
package cli

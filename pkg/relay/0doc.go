// Package relay pairs inbound connections and relays raw bytes between
// them.
//
// The Manager is the pairing collaborator: it holds the single slot for a
// connection awaiting its peer, completes a pair on the next arrival and
// spawns one scheduler task per pair which drives the pair's splice engine
// until both directions finished or one failed. Pairing is strictly
// first-come; the relay itself never chooses who talks to whom.
//
// Failures stay at pair granularity. An I/O error tears its own pair down
// and is logged; no other pair is affected.
package relay

// Package types defines the Backend interface, the Entry and DailyMood
// entities, and standard errors for the SimNote storage system.
// See docs/ARCHITECTURE.md § Main Interface.
package types

// Package coordinator runs the periodic advisory loop that turns fresh
// screenshots into published coaching advice via the external oracle.
package coordinator

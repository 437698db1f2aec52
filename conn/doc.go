// Package conn implements the raw byte transports that display buses are built on.
package conn

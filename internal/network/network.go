// Package network answers whether the machine has any usable network connection.
// The check is local and synchronous: it never dials out, it only inspects interfaces.
package network

import (
	"net"
)

// Checker reports network reachability.
type Checker interface {
	Available() bool
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func() bool

func (f CheckerFunc) Available() bool { return f() }

// Interfaces is the default Checker. A network is considered available when at
// least one non-loopback interface is up and carries an address.
type Interfaces struct {
	// list is swapped in tests; nil means net.Interfaces.
	list func() ([]iface, error)
}

type iface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

type netIface struct{ i net.Interface }

func (n netIface) Flags() net.Flags           { return n.i.Flags }
func (n netIface) Addrs() ([]net.Addr, error) { return n.i.Addrs() }

func systemInterfaces() ([]iface, error) {
	ifs, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]iface, 0, len(ifs))
	for _, i := range ifs {
		out = append(out, netIface{i})
	}
	return out, nil
}

// Available reports whether some interface could carry traffic.
func (c Interfaces) Available() bool {
	list := c.list
	if list == nil {
		list = systemInterfaces
	}
	ifs, err := list()
	if err != nil {
		return false
	}
	for _, i := range ifs {
		flags := i.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := i.Addrs()
		if err == nil && len(addrs) > 0 {
			return true
		}
	}
	return false
}

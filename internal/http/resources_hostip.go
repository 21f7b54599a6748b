package http

import (
	"net"
	"slices"
)

// preferredHostIP picks the address printed in the startup log, so the URL
// shown is one a phone or laptop on the same LAN can open.
func preferredHostIP() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok {
				candidates = append(candidates, ipnet.IP)
			}
		}
	}
	return pickHostIP(candidates), nil
}

// pickHostIP returns the best-ranked usable IPv4 address, keeping interface
// order among equals, or "" when there is none.
func pickHostIP(candidates []net.IP) string {
	usable := make([]net.IP, 0, len(candidates))
	for _, ip := range candidates {
		ip4 := ip.To4()
		if ip4 == nil || ip4.IsLoopback() || ip4.IsLinkLocalUnicast() {
			continue
		}
		usable = append(usable, ip4)
	}
	if len(usable) == 0 {
		return ""
	}
	slices.SortStableFunc(usable, func(a, b net.IP) int {
		return hostIPRank(a) - hostIPRank(b)
	})
	return usable[0].String()
}

// hostIPRank orders home-router ranges first, then other private ranges,
// then everything else.
func hostIPRank(ip net.IP) int {
	switch {
	case ip[0] == 192 && ip[1] == 168 && ip[2] == 1:
		return 0
	case ip[0] == 192 && ip[1] == 168:
		return 1
	case ip.IsPrivate():
		return 2
	default:
		return 3
	}
}

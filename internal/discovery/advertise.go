package discovery

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/promodeck/internal/logging"
)

// Advertisement describes a page to announce over mDNS
type Advertisement struct {
	Instance string
	Port     int
	Game     string
	Codes    int
	Version  string
}

// Text returns the TXT records of the advertisement, sorted by key
func (a Advertisement) Text() []string {
	records := map[string]string{
		"path":    "/",
		"game":    a.Game,
		"codes":   strconv.Itoa(a.Codes),
		"version": a.Version,
	}

	txt := make([]string, 0, len(records))
	for k, v := range records {
		txt = append(txt, k+"="+v)
	}
	sort.Strings(txt)
	return txt
}

// Advertiser keeps a registered mDNS service alive until Shutdown
type Advertiser struct {
	server *zeroconf.Server
	ad     Advertisement
}

// Advertise registers the page on all multicast interfaces
func Advertise(ad Advertisement) (*Advertiser, error) {
	if ad.Instance == "" {
		ad.Instance = InstanceName(ad.Game)
	}
	if ad.Port <= 0 {
		return nil, fmt.Errorf("invalid advertise port %d", ad.Port)
	}

	server, err := zeroconf.Register(ad.Instance, ServiceType, ServiceDomain, ad.Port, ad.Text(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising page over mDNS",
		zap.String("instance", ad.Instance),
		zap.String("service", ServiceType),
		zap.Int("port", ad.Port),
	)

	return &Advertiser{server: server, ad: ad}, nil
}

// Instance returns the registered instance name
func (a *Advertiser) Instance() string {
	return a.ad.Instance
}

// Shutdown withdraws the advertisement
func (a *Advertiser) Shutdown() {
	if a.server != nil {
		a.server.Shutdown()
		logging.Info("Stopped mDNS advertisement", zap.String("instance", a.ad.Instance))
	}
}

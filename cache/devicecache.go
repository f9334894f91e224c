// Package cache holds the small in-memory indexes the coordinator keeps
// alongside the authoritative stores — bounded LRUs that live only in
// process memory. They are not rebuilt on boot: after a restart they start
// empty and fill again as devices create or join rooms.
package cache

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// DeviceRoomCache answers "which room is this device currently in" for
// Admission's lookup_active_room without walking every open room on every
// request. It maps device to room only; there is no room-to-device lookup.
type DeviceRoomCache struct {
	deviceToRoom *lru.Cache
}

func NewDeviceRoomCache(size int) (*DeviceRoomCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialize device-to-room cache")
	}
	return &DeviceRoomCache{deviceToRoom: c}, nil
}

func (c *DeviceRoomCache) Put(deviceID, roomID string) error {
	if deviceID == "" {
		return errors.Errorf("invalid device id %q", deviceID)
	}
	if roomID == "" {
		return errors.Errorf("invalid room id %q", roomID)
	}
	c.deviceToRoom.Add(deviceID, roomID)
	return nil
}

func (c *DeviceRoomCache) Lookup(deviceID string) (string, bool) {
	v, ok := c.deviceToRoom.Get(deviceID)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (c *DeviceRoomCache) Remove(deviceID string) {
	c.deviceToRoom.Remove(deviceID)
}

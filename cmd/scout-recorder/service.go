// scout-recorder - frame-to-frame motion detection for the Scout edge camera
//  Copyright (C) 2024, The Scout Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"

	"github.com/godbus/dbus"
	"github.com/godbus/dbus/introspect"
)

const (
	dbusName = "org.scoutproject.scoutrecorder"
	dbusPath = "/org/scoutproject/scoutrecorder"
)

type service struct{}

func startService() error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return err
	}
	reply, err := conn.RequestName(dbusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return errors.New("name already taken")
	}

	s := new(service)
	conn.Export(s, dbusPath, dbusName)
	conn.Export(genIntrospectable(s), dbusPath, "org.freedesktop.DBus.Introspectable")

	return nil
}

func genIntrospectable(v interface{}) introspect.Introspectable {
	node := &introspect.Node{
		Interfaces: []introspect.Interface{{
			Name:    dbusName,
			Methods: introspect.Methods(v),
		}},
	}
	return introspect.NewIntrospectable(node)
}

// Reset releases the detection baseline and clears cooldown and size
// history, forcing the engine to start over. Useful after moving the
// camera or changing its configuration.
func (s *service) Reset() *dbus.Error {
	processorMu.Lock()
	defer processorMu.Unlock()
	if processor != nil {
		processor.Reset()
	}
	return nil
}

// Status returns a line describing the most recent detection event.
func (s *service) Status() (string, *dbus.Error) {
	return getLastEvent(), nil
}

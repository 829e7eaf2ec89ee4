// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package viralloop

import (
	"context"
	"time"

	"github.com/davecgh/go-spew/spew"
	v1 "github.com/viralloop/viralloop-go/api/v1"
	"github.com/viralloop/viralloop-go/device"
)

// initialize loads the existing user, or creates a new one, and starts the
// background work that syncs it with the backend.
func (c *Client) initialize() {
	c.store.MigrateLegacy()

	dev := c.device.DeviceInfo()
	userID, ok := c.store.UserID()
	if ok {
		c.recordInstallation(dev)

		var code *string
		if rc, ok := c.store.ReferralCode(); ok {
			code = &rc
		}
		c.setUser(c.localUser(userID, dev, code))

		log.Infof("Initialized existing user %v", userID)

		if c.dailyUpdateDue() {
			c.goBackground("daily update", c.dailyUpdate)
		} else {
			c.goBackground("refresh user", c.refreshUser)
		}
		return
	}

	// New installation
	userID = c.device.GenerateUserID()
	err := c.store.SaveUserID(userID)
	if err != nil {
		log.Errorf("Failed to save user id %v: %v", userID, err)
	}
	c.recordInstallation(dev)
	c.setUser(c.localUser(userID, dev, nil))

	log.Infof("Created new user %v", userID)

	c.goBackground("register user", c.register)
}

// recordInstallation appends this launch to the installation history and
// warns when the device has been installed before.
func (c *Client) recordInstallation(dev device.Info) {
	err := c.store.RecordInstallation(dev.Fingerprint(), nil, c.now())
	if err != nil {
		log.Warnf("Failed to record installation: %v", err)
	}
	history := c.store.InstallationHistory()
	if len(history) > 1 {
		log.Warnf("Multiple installations detected: %v", len(history))
	}
}

// localUser returns a user built from local information only. Paid status
// and lifetime value start out empty until the backend replies.
func (c *Client) localUser(userID string, dev device.Info, code *string) *v1.User {
	app := c.device.AppInfo()

	c.RLock()
	first, source := c.firstReferralSource, c.attributionSource
	c.RUnlock()

	return &v1.User{
		ExternalUserID:      userID,
		DeviceType:          dev.DeviceType,
		DeviceBrand:         dev.Brand,
		DeviceModel:         dev.Model,
		OperatingSystem:     dev.OS,
		OSVersion:           dev.OSVersion,
		AppVersion:          app.Version,
		AppBuildNumber:      app.BuildNumber,
		IsPaidUser:          false,
		LifetimeValueUSD:    0,
		ReferralCode:        code,
		CountryCode:         c.device.CountryCode(),
		Connectivity:        c.device.Connectivity(),
		DeviceLanguage:      c.device.Language(),
		Timezone:            c.device.Timezone(),
		FirstReferralSource: first,
		AttributionSource:   source,
	}
}

// setUser replaces the in-memory user.
func (c *Client) setUser(u *v1.User) {
	c.Lock()
	c.user = u
	c.Unlock()

	log.Tracef("User: %v", newLogClosure(func() string {
		return spew.Sdump(u)
	}))
}

// applyUser replaces the in-memory user with a user returned by the backend
// and saves its referral code. The external user id never changes.
func (c *Client) applyUser(u *v1.User) {
	c.Lock()
	if c.user == nil {
		// Closed
		c.Unlock()
		return
	}
	id := c.user.ExternalUserID
	c.Unlock()

	if u.ExternalUserID != id {
		if u.ExternalUserID != "" {
			log.Warnf("Backend returned user %v for %v",
				u.ExternalUserID, id)
		}
		u.ExternalUserID = id
	}
	c.setUser(u)

	if u.ReferralCode != nil && *u.ReferralCode != "" {
		err := c.store.SaveReferralCode(*u.ReferralCode)
		if err != nil {
			log.Warnf("Failed to save referral code: %v", err)
		}
	}
}

// userID returns the external id of the in-memory user.
func (c *Client) userID() (string, error) {
	c.RLock()
	defer c.RUnlock()

	if c.user == nil {
		return "", ErrUserNotInitialized
	}
	return c.user.ExternalUserID, nil
}

// register registers the in-memory user with the backend.
func (c *Client) register(ctx context.Context) error {
	u, ok := c.User()
	if !ok {
		return ErrUserNotInitialized
	}
	reply, err := c.api.UserNew(ctx, u)
	if err != nil {
		return err
	}
	c.applyUser(reply)

	log.Infof("New user registered: %v", u.ExternalUserID)

	return nil
}

// refreshUser replaces the in-memory user with the backend copy.
func (c *Client) refreshUser(ctx context.Context) error {
	userID, err := c.userID()
	if err != nil {
		return err
	}
	reply, err := c.api.UserDetails(ctx, userID)
	if err != nil {
		return err
	}
	c.applyUser(reply)

	log.Infof("Refreshed existing user %v", userID)

	return nil
}

// dailyUpdate sends the device metadata of the user and records the time of
// the update.
func (c *Client) dailyUpdate(ctx context.Context) error {
	userID, err := c.userID()
	if err != nil {
		return err
	}
	dev := c.device.DeviceInfo()
	app := c.device.AppInfo()
	d := v1.UserDailyUpdate{
		DeviceType:      dev.DeviceType,
		DeviceBrand:     dev.Brand,
		DeviceModel:     dev.Model,
		OperatingSystem: dev.OS,
		OSVersion:       dev.OSVersion,
		AppVersion:      app.Version,
		AppBuildNumber:  app.BuildNumber,
		CountryCode:     c.device.CountryCode(),
		Connectivity:    c.device.Connectivity(),
		DeviceLanguage:  c.device.Language(),
		Timezone:        c.device.Timezone(),
	}
	reply, err := c.api.UserDailyUpdate(ctx, userID, d)
	if err != nil {
		return err
	}
	c.applyUser(reply)

	err = c.store.SaveLastUpdate(c.now())
	if err != nil {
		log.Warnf("Failed to save last update: %v", err)
	}

	log.Infof("Daily update successful")

	return nil
}

// sameDay returns whether both times fall on the same calendar date in the
// local timezone.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(time.Local).Date()
	by, bm, bd := b.In(time.Local).Date()
	return ay == by && am == bm && ad == bd
}

// dailyUpdateDue returns whether the daily update has not been sent today.
func (c *Client) dailyUpdateDue() bool {
	last, ok := c.store.LastUpdate()
	if !ok {
		return true
	}
	return !sameDay(last, c.now())
}

// checkDailyUpdate sends the daily update when it is due. It is run
// periodically by the daily refresh job.
func (c *Client) checkDailyUpdate() {
	if !c.dailyUpdateDue() {
		return
	}
	c.goBackground("daily update", func(ctx context.Context) error {
		_, err, _ := c.group.Do("daily-update", func() (interface{}, error) {
			if !c.dailyUpdateDue() {
				return nil, nil
			}
			return nil, c.dailyUpdate(ctx)
		})
		return err
	})
}

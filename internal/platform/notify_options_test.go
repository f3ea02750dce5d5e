package platform

import (
	"testing"
	"time"
)

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if o.appName() != "QuarkEdit" || o.expire() != DefaultExpire {
		t.Fatalf("defaults = %q %v", o.appName(), o.expire())
	}
	o = Options{AppName: "Other", Expire: time.Second}
	if o.appName() != "Other" || o.expire() != time.Second {
		t.Fatalf("overrides = %q %v", o.appName(), o.expire())
	}
}

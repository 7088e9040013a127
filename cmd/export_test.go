package cmd

import "github.com/spf13/viper"

// ConfigFromMapForTest builds a Config from defaults overridden by values.
func ConfigFromMapForTest(values map[string]any) (Config, error) {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return configFrom(v)
}

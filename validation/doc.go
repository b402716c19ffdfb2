// Package validation validates configuration structs with
// go-playground/validator struct tags.
//
//	type Config struct {
//	    Name string `mapstructure:"name" validate:"required"`
//	}
//	err := validation.Struct(cfg)
//
// Field names in the resulting error use the mapstructure key, so they match
// the keys users write in config files.
package validation

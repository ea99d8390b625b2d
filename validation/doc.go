// Package validation validates configuration structs with go-playground
// validator tags and reports failures as INVALID_CONFIG errors.
//
//	type ExecutionConfig struct {
//	    Workers int `mapstructure:"workers" validate:"gte=0,lte=4096"`
//	}
//	err := validation.Validate(cfg)
package validation

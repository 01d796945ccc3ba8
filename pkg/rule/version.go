package rule

import (
	"github.com/go-playground/validator/v10"

	versionpkg "github.com/yeisme/patchvault/pkg/version"
)

// init 注册领域规则：version4 校验 1-4 段点分数字版本号.
func init() {
	_ = RegisterValidation("version4", func(fl validator.FieldLevel) bool {
		return versionpkg.IsValid(fl.Field().String())
	})
}

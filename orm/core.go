package orm

import (
	"github.com/coderi421/bow/orm/internal/binder"
	"github.com/coderi421/bow/orm/internal/valuer"
	"github.com/coderi421/bow/orm/model"
)

type core struct {
	r          model.Registry // 存储数据库表和 struct 映射关系的实例
	binder     *binder.Binder // 解析并绑定 @name 参数
	valCreator valuer.Creator // 与DB交互映射的实现
	mdls       []Middleware
}

package models

// WineRecord 目录中的一款酒，只读
//
// ID 是记录在当前加载数组中的下标，数据集变动后会漂移；
// Key 是稳定标识，优先取源数据自带的 id/key，否则由酒庄、名称、品种派生。
type WineRecord struct {
	ID          int    `json:"id"`
	Key         string `json:"key"`
	Title       string `json:"title"`
	Price       *Money `json:"price"` // 部分酒款无标价
	Points      int    `json:"points"`
	Variety     string `json:"variety"`
	Region1     string `json:"region_1"`
	Region2     string `json:"region_2"`
	Winery      string `json:"winery"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Country     string `json:"country,omitempty"`
	Province    string `json:"province,omitempty"`
	Designation string `json:"designation,omitempty"`
}

// PrimaryRegion 购物车快照使用的产区，region_1 缺失时回退到 region_2
func (w WineRecord) PrimaryRegion() string {
	if w.Region1 != "" {
		return w.Region1
	}
	return w.Region2
}

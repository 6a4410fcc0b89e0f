package components

// DisplacedComponent 标记实体的顶点（或点云中心）在模型变换前经过位移函数
type DisplacedComponent struct{}
